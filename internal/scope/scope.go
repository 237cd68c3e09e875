// Package scope implements the CORE's scope algebra (C4): an append-only
// chain of rigid variables tagged with a monotone, nonnegative level.
package scope

import (
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// Scope is an immutable, append-only chain of rigid variables plus a level.
// Add/AddNamed/IncrLevel return a new Scope extending the receiver; they
// never mutate it.
type Scope struct {
	vars  []*tyvar.Var // flattened chain, in binding order
	level int
}

// Initial is the empty scope at level 0.
func Initial() *Scope {
	return &Scope{level: 0}
}

// Mem reports whether v was added along this scope's chain.
func (s *Scope) Mem(v *tyvar.Var) bool {
	for _, w := range s.vars {
		if w == v {
			return true
		}
	}
	return false
}

// Add extends the scope with v. Adding an already-present variable is
// idempotent: it returns the receiver unchanged (§4.2).
func (s *Scope) Add(v *tyvar.Var) *Scope {
	if s.Mem(v) {
		return s
	}
	vars := make([]*tyvar.Var, len(s.vars)+1)
	copy(vars, s.vars)
	vars[len(s.vars)] = v
	return &Scope{vars: vars, level: s.level}
}

// AddNamed allocates a fresh rigid variable called name with kind k at the
// scope's current level, adds it to the scope, and returns both the
// extended scope and the new variable.
func (s *Scope) AddNamed(supply *ids.Supply, name string, k kinds.Kind) (*Scope, *tyvar.Var) {
	v := tyvar.New(supply, name, k, s.level)
	return s.Add(v), v
}

// Level returns the scope's monotone level.
func (s *Scope) Level() int { return s.level }

// IncrLevel returns a scope identical to the receiver except for a level one
// higher than the receiver's, opening a fresh region for let-binding or
// generalization (§4.2).
func (s *Scope) IncrLevel() *Scope {
	return &Scope{vars: s.vars, level: s.level + 1}
}

// Vars returns the flattened chain in binding order. Callers must treat the
// result as read-only.
func (s *Scope) Vars() []*tyvar.Var { return s.vars }

// Filter returns the sub-scope containing exactly the variables for which
// keep holds, in the receiver's order and at the receiver's level. Used by
// the uvar store's FilterScope (C6) to shrink a cell's scope.
func (s *Scope) Filter(keep func(*tyvar.Var) bool) *Scope {
	out := make([]*tyvar.Var, 0, len(s.vars))
	for _, v := range s.vars {
		if keep(v) {
			out = append(out, v)
		}
	}
	return &Scope{vars: out, level: s.level}
}

// Perm rewrites every variable in the scope through p, preserving order and
// level. Used when a permutation is pushed through a binder that also
// narrows a uvar's visible scope.
func (s *Scope) Perm(p *perm.Perm) *Scope {
	vars := make([]*tyvar.Var, len(s.vars))
	for i, v := range s.vars {
		vars[i] = p.Apply(v)
	}
	return &Scope{vars: vars, level: s.level}
}

// Sub reports whether every variable of s is a member of other — s ⊆ other.
func (s *Scope) Sub(other *Scope) bool {
	for _, v := range s.vars {
		if !other.Mem(v) {
			return false
		}
	}
	return true
}
