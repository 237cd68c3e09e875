// Package kinds implements the CORE's kind algebra and kind-unification-
// variable store (C2): Type, Effect, EffRow, Arrow and KUVar, together with
// the non-effect constraint a kind unification variable may carry.
package kinds

import (
	"fmt"

	"github.com/dominik-muc/unif/internal/ids"
)

// Kind is the small algebra of kinds. Concrete kinds are Type, Effect,
// EffRow, *Arrow and UVar.
type Kind interface {
	isKind()
	String() string
}

type kType struct{}
type kEffect struct{}
type kEffRow struct{}

func (kType) isKind()      {}
func (kEffect) isKind()    {}
func (kEffRow) isKind()    {}
func (kType) String() string   { return "Type" }
func (kEffect) String() string { return "Effect" }
func (kEffRow) String() string { return "EffRow" }

// The three ground, non-uvar, non-arrow kinds.
var (
	Type   Kind = kType{}
	Effect Kind = kEffect{}
	EffRow Kind = kEffRow{}
)

// Arrow is the kind of a type constructor. The codomain of any Arrow must be
// non-effect (§3 invariant); Store.ArrowKind enforces this at construction.
type Arrow struct {
	Dom Kind
	Cod Kind
}

func (*Arrow) isKind() {}

func (a *Arrow) String() string {
	return fmt.Sprintf("%s -> %s", a.Dom, a.Cod)
}

// UVar is a kind unification variable: a handle into a Store's cell table.
type UVar struct {
	id ids.ID
}

func (UVar) isKind() {}

func (u UVar) String() string { return fmt.Sprintf("k%d", u.id) }

// ID returns the uvar's session-unique identity.
func (u UVar) ID() ids.ID { return u.id }

type cell struct {
	isSet     bool
	nonEffect bool
	link      Kind
}

// Store is the mutable cell table backing kind unification variables. A
// Store is scoped to one compilation session; its cells may only be written
// once (unset -> set), with the non-effect flag the sole exception — it may
// flip from false to true any number of times before the cell is set.
type Store struct {
	supply *ids.Supply
	cells  map[ids.ID]*cell
}

// NewStore creates an empty kind-uvar store drawing identities from supply.
func NewStore(supply *ids.Supply) *Store {
	return &Store{supply: supply, cells: make(map[ids.ID]*cell)}
}

// FreshUVar allocates a new, unset kind unification variable. nonEffect
// records whether the caller has already committed this uvar to never
// resolving to Effect or EffRow.
func (s *Store) FreshUVar(nonEffect bool) UVar {
	id := s.supply.Fresh()
	s.cells[id] = &cell{nonEffect: nonEffect}
	return UVar{id: id}
}

func (s *Store) cellOf(u UVar) *cell {
	c, ok := s.cells[u.id]
	if !ok {
		panic("kinds: uvar does not belong to this store")
	}
	return c
}

// View forces followups through set kind uvars; an unset uvar is returned
// unchanged. View never returns a set uvar (P2-style idempotence).
func (s *Store) View(k Kind) Kind {
	for {
		u, ok := k.(UVar)
		if !ok {
			return k
		}
		c := s.cellOf(u)
		if !c.isSet {
			return k
		}
		k = c.link
	}
}

// ContainsUVar reports whether u occurs anywhere within k, following set
// uvars along the way. Used as the kind-level occurs check.
func (s *Store) ContainsUVar(u UVar, k Kind) bool {
	switch h := s.View(k).(type) {
	case UVar:
		return h.id == u.id
	case *Arrow:
		return s.ContainsUVar(u, h.Dom) || s.ContainsUVar(u, h.Cod)
	default:
		return false
	}
}

// NonEffect reports whether k is statically known not to resolve to Effect
// or EffRow: true for Type, Arrow, and an unset uvar carrying the non-effect
// flag; false for Effect, EffRow, and an unset uvar without the flag.
func (s *Store) NonEffect(k Kind) bool {
	switch h := s.View(k).(type) {
	case kEffect:
		return false
	case kEffRow:
		return false
	case UVar:
		return s.cellOf(h).nonEffect
	default:
		return true
	}
}

// IsEffect reports whether k's head (after View) is the ground Effect kind.
func (s *Store) IsEffect(k Kind) bool {
	_, ok := s.View(k).(kEffect)
	return ok
}

// Set links u to k. It panics if u is already set or if k transitively
// contains u (both internal invariant violations — the caller is expected
// to never present a cyclic kind or re-set a cell). It returns false,
// leaving the store unchanged, when u carries the non-effect constraint and
// k is not non-effect; this is the one expected failure mode (§4.1).
func (s *Store) Set(u UVar, k Kind) bool {
	c := s.cellOf(u)
	if c.isSet {
		panic("kinds: uvar set twice")
	}
	if s.ContainsUVar(u, k) {
		panic("kinds: occurs check failed while setting a kind uvar")
	}
	if c.nonEffect && !s.NonEffect(k) {
		return false
	}
	c.isSet = true
	c.link = k
	return true
}

// SetSafe is Set restricted to callers that have statically guaranteed k is
// non-effect; it panics instead of returning false if that guarantee was
// wrong, since in that case the caller's static reasoning was unsound.
func (s *Store) SetSafe(u UVar, k Kind) {
	if !s.NonEffect(k) {
		panic("kinds: SetSafe called with an effectful kind")
	}
	s.Set(u, k)
}

// SetNonEffect walks k to its View head: a concrete non-effect head
// succeeds, a concrete Effect/EffRow head fails, and an unset uvar has its
// flag turned on (idempotently) and succeeds.
func (s *Store) SetNonEffect(k Kind) bool {
	switch h := s.View(k).(type) {
	case kEffect:
		return false
	case kEffRow:
		return false
	case UVar:
		s.cellOf(h).nonEffect = true
		return true
	default:
		return true
	}
}

// ArrowKind builds Dom -> Cod, asserting the codomain is non-effect.
func (s *Store) ArrowKind(dom, cod Kind) *Arrow {
	if !s.NonEffect(cod) {
		panic("kinds: arrow codomain must be non-effect")
	}
	return &Arrow{Dom: dom, Cod: cod}
}

// ArrowsKind curries a chain of argument kinds onto a final, non-effect
// codomain: ArrowsKind(cod, a, b, c) = a -> (b -> (c -> cod)).
func (s *Store) ArrowsKind(cod Kind, args ...Kind) Kind {
	k := cod
	for i := len(args) - 1; i >= 0; i-- {
		k = s.ArrowKind(args[i], k)
	}
	return k
}
