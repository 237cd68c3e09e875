// Package perm implements finite partial permutations over rigid type
// variables (C5): the delayed-permutation machinery attached to every
// mention of a unification variable (§3, §9).
package perm

import "github.com/dominik-muc/unif/internal/tyvar"

// Perm is a finite partial permutation: undefined on every variable outside
// its domain. Representation follows §9's hash-map-plus-inverse recipe:
// inversion is O(1); composition walks both maps.
type Perm struct {
	fwd map[*tyvar.Var]*tyvar.Var
	inv map[*tyvar.Var]*tyvar.Var
}

// Identity is the permutation defined nowhere.
func Identity() *Perm {
	return &Perm{fwd: map[*tyvar.Var]*tyvar.Var{}, inv: map[*tyvar.Var]*tyvar.Var{}}
}

// Swap returns the permutation exchanging a and b and undefined elsewhere.
func Swap(a, b *tyvar.Var) *Perm {
	if a == b {
		return Identity()
	}
	return &Perm{
		fwd: map[*tyvar.Var]*tyvar.Var{a: b, b: a},
		inv: map[*tyvar.Var]*tyvar.Var{a: b, b: a},
	}
}

// Apply rewrites v through the permutation; a variable outside the domain is
// returned unchanged.
func (p *Perm) Apply(v *tyvar.Var) *tyvar.Var {
	if p == nil {
		return v
	}
	if w, ok := p.fwd[v]; ok {
		return w
	}
	return v
}

// Inverse returns the inverse permutation. p.Inverse().Apply(p.Apply(v)) == v
// for every v.
func (p *Perm) Inverse() *Perm {
	if p == nil {
		return Identity()
	}
	return &Perm{fwd: p.inv, inv: p.fwd}
}

// Compose returns the permutation equivalent to applying p, then q:
//
//	Compose(p, q).Apply(v) == q.Apply(p.Apply(v))
//
// Composition is not commutative; its order is a specified input at every
// call site (§5 Ordering, §9 Delayed permutations: "composition ... is
// left-to-right").
func Compose(p, q *Perm) *Perm {
	fwd := make(map[*tyvar.Var]*tyvar.Var)
	inv := make(map[*tyvar.Var]*tyvar.Var)
	touch := func(a, c *tyvar.Var) {
		if a == c {
			delete(fwd, a)
			delete(inv, a)
			return
		}
		fwd[a] = c
		inv[c] = a
	}
	for a, b := range p.fwd {
		touch(a, q.Apply(b))
	}
	for a, b := range q.fwd {
		if _, fromP := p.fwd[a]; fromP {
			continue // already folded in above
		}
		touch(a, b)
	}
	return &Perm{fwd: fwd, inv: inv}
}

// Restrict returns the permutation agreeing with p on dom and undefined
// everywhere else.
func (p *Perm) Restrict(dom []*tyvar.Var) *Perm {
	out := Identity()
	for _, v := range dom {
		if w, ok := p.fwd[v]; ok {
			out.fwd[v] = w
			out.inv[w] = v
		}
	}
	return out
}

// Domain returns the variables on which p is defined, in unspecified order.
func (p *Perm) Domain() []*tyvar.Var {
	out := make([]*tyvar.Var, 0, len(p.fwd))
	for v := range p.fwd {
		out = append(out, v)
	}
	return out
}

// IsIdentity reports whether p is defined nowhere.
func (p *Perm) IsIdentity() bool {
	return p == nil || len(p.fwd) == 0
}
