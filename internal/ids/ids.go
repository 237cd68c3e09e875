// Package ids hands out fresh identifiers for rigid variables, unification
// variables, and kind unification variables within a single compilation
// session.
package ids

// ID identifies a variable, unification variable, or kind unification
// variable. IDs are never reused and never compared across sessions.
type ID uint64

// Supply is a session-scoped counter. The scheduling model is single-threaded
// cooperative (no locks): a Supply must not be shared between sessions run
// concurrently, each session gets its own.
type Supply struct {
	next ID
}

// NewSupply returns a Supply starting from the first valid ID.
func NewSupply() *Supply {
	return &Supply{next: 1}
}

// Fresh returns a new ID, strictly greater than every ID this Supply has
// previously handed out.
func (s *Supply) Fresh() ID {
	id := s.next
	s.next++
	return id
}
