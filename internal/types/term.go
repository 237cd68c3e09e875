// Package types implements the CORE's mutable unification-variable store
// (C6), type term algebra (C7), capture-avoiding substitution (C8), type
// schemes and constructor declarations (C9), effect rows (C10), scope
// shrinking and strict positivity (C11), and the built-in rigid variables
// (C12). These components are mutually recursive (a uvar cell's content is
// a Type; a Type mentions uvars) and so share one package, following the
// teacher's own flat internal/types layout (ailang keeps kinds, rows, the
// unifier, and the type algebra together for the same reason).
package types

import (
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// Type is the CORE's representation of types and effect rows (§3). Callers
// are expected to inspect a Type only through Store.View / Store.WHNF —
// reading a TUVar's fields directly bypasses cell resolution and will show a
// stale delayed permutation if the cell has since been set.
type Type interface {
	isType()
}

// TUVar mentions a unification variable u through a delayed permutation:
// its effective content is obtained by composing Perm with whatever
// permutation has been applied to the cell since creation, then applying
// the result to the cell's content (§3, §9).
type TUVar struct {
	Perm *perm.Perm
	ID   ids.ID
}

func (*TUVar) isType() {}

// TVar is a rigid (skolem) variable.
type TVar struct{ V *tyvar.Var }

func (*TVar) isType() {}

// TEffect is a ground effect: a finite set of effect rigids (kind Effect).
type TEffect struct{ Elems map[*tyvar.Var]struct{} }

func (*TEffect) isType() {}

// TEffRow is an effect row: a set of simple effect rigids plus an end that
// is closed, a uvar, a rigid row variable, or a type application (§3, §4.5).
type TEffRow struct {
	Elems map[*tyvar.Var]struct{}
	End   RowEnd
}

func (*TEffRow) isType() {}

// RowEnd is the tail of an effect row.
type RowEnd interface{ isRowEnd() }

// REClosed is the empty, closed end.
type REClosed struct{}

func (REClosed) isRowEnd() {}

// REUVar is an end mentioning a row-kinded unification variable.
type REUVar struct {
	Perm *perm.Perm
	ID   ids.ID
}

func (REUVar) isRowEnd() {}

// REVar is an end that is a rigid row variable.
type REVar struct{ V *tyvar.Var }

func (REVar) isRowEnd() {}

// REApp is an end that is a neutral type application (e.g. an abstract
// effect-row-valued type family applied to arguments).
type REApp struct{ Fn, Arg Type }

func (REApp) isRowEnd() {}

// TPureArrow is a pure (total, effect-free) arrow.
type TPureArrow struct {
	Param *Scheme
	Ret   Type
}

func (*TPureArrow) isType() {}

// TArrow is an impure arrow carrying a row of effects.
type TArrow struct {
	Param *Scheme
	Ret   Type
	Row   Type // kind EffRow
}

func (*TArrow) isType() {}

// THandler is a first-class handler value.
type THandler struct {
	A    *tyvar.Var // existential answer-type variable
	Tp   Type       // type of the handled computation
	ITp  Type       // inner (unhandled) result type
	IEff Type       // inner effect row (what the handled computation performs)
	OTp  Type       // outer (post-handling) result type
	OEff Type       // outer effect row (what remains after handling)
}

func (*THandler) isType() {}

// TLabel is a first-class delimiter/label.
type TLabel struct {
	E   *tyvar.Var // runtime label variable
	Tp  Type       // delimiter's type
	Row Type       // delimiter's effect
}

func (*TLabel) isType() {}

// TApp is neutral type application.
type TApp struct{ Fn, Arg Type }

func (*TApp) isType() {}

func toSet(vs []*tyvar.Var) map[*tyvar.Var]struct{} {
	m := make(map[*tyvar.Var]struct{}, len(vs))
	for _, v := range vs {
		m[v] = struct{}{}
	}
	return m
}

func cloneSet(m map[*tyvar.Var]struct{}) map[*tyvar.Var]struct{} {
	out := make(map[*tyvar.Var]struct{}, len(m))
	for v := range m {
		out[v] = struct{}{}
	}
	return out
}
