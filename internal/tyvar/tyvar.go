// Package tyvar implements rigid (skolem) type variables (C3): uniquely
// identified, kinded, and never mutated once allocated.
package tyvar

import (
	"fmt"

	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
)

// Var is a rigid type variable. Two Vars are the same variable iff they are
// the same pointer — identity, not name, is what unification and scope
// membership compare (names may collide on purpose, e.g. after refresh of
// two unrelated schemes picks the same surface letter).
type Var struct {
	id    ids.ID
	name  string
	kind  kinds.Kind
	level int // level of the scope this rigid was introduced in
}

// New allocates a fresh rigid variable at the given level. Rigids allocated
// once live for the remainder of the session (§3 Lifecycle): there is no
// Free or Release.
func New(supply *ids.Supply, name string, kind kinds.Kind, level int) *Var {
	return &Var{id: supply.Fresh(), name: name, kind: kind, level: level}
}

// ID returns the variable's session-unique identity.
func (v *Var) ID() ids.ID { return v.id }

// Name returns the variable's display name (purely cosmetic; never used for
// equality).
func (v *Var) Name() string { return v.name }

// Kind returns the variable's kind.
func (v *Var) Kind() kinds.Kind { return v.kind }

// Level returns the level of the scope this variable was bound in, used by
// scope shrinking (C11) to decide whether the variable still needs to be
// kept visible to a narrower uvar.
func (v *Var) Level() int { return v.level }

func (v *Var) String() string {
	if v.name != "" {
		return v.name
	}
	return fmt.Sprintf("t%d", v.id)
}
