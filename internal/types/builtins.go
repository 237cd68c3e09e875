package types

import (
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// Builtins is the table of rigid variables standing for the CORE's built-in
// ground types and Unit's proof term (C12), all of kind Type. Every field is a
// rigid bound in the session's outermost scope — built-ins are never fresh,
// never unified away, and live for the whole session, matching how the
// teacher's type checker treats TCon("Int"), TCon("String") etc. as fixed
// constants rather than anything a Scheme could quantify over.
type Builtins struct {
	IntV    *tyvar.Var
	Int64V  *tyvar.Var
	StringV *tyvar.Var
	CharV   *tyvar.Var
	BoolV   *tyvar.Var
	UnitV   *tyvar.Var

	// EUnitPrfV is Unit's computationally irrelevant proof term: a rigid of
	// kind Type standing alongside UnitV, not a value Unit itself reduces to.
	// A scheme body can mention EUnitPrfV wherever a caller needs a Type-kinded
	// witness that carries no information beyond "this is Unit's proof".
	EUnitPrfV *tyvar.Var

	byName map[string]*tyvar.Var
}

// NewBuiltins allocates every built-in rigid in sc (the session's initial
// scope) and returns the extended scope alongside the table.
func NewBuiltins(supply *ids.Supply, sc *scope.Scope) (*scope.Scope, *Builtins) {
	b := &Builtins{byName: map[string]*tyvar.Var{}}
	add := func(name string, k kinds.Kind) *tyvar.Var {
		var v *tyvar.Var
		sc, v = sc.AddNamed(supply, name, k)
		b.byName[name] = v
		return v
	}
	b.IntV = add("Int", kinds.Type)
	b.Int64V = add("Int64", kinds.Type)
	b.StringV = add("String", kinds.Type)
	b.CharV = add("Char", kinds.Type)
	b.BoolV = add("Bool", kinds.Type)
	b.UnitV = add("Unit", kinds.Type)
	b.EUnitPrfV = add("EUnitPrf", kinds.Type)
	return sc, b
}

func (b *Builtins) Int() Type      { return &TVar{V: b.IntV} }
func (b *Builtins) Int64() Type    { return &TVar{V: b.Int64V} }
func (b *Builtins) String() Type   { return &TVar{V: b.StringV} }
func (b *Builtins) Char() Type     { return &TVar{V: b.CharV} }
func (b *Builtins) Bool() Type     { return &TVar{V: b.BoolV} }
func (b *Builtins) Unit() Type     { return &TVar{V: b.UnitV} }
func (b *Builtins) EUnitPrf() Type { return &TVar{V: b.EUnitPrfV} }

// All returns every built-in name paired with its rigid variable, in no
// particular order, as a fresh map the caller may modify.
func (b *Builtins) All() map[string]*tyvar.Var {
	out := make(map[string]*tyvar.Var, len(b.byName))
	for k, v := range b.byName {
		out[k] = v
	}
	return out
}

// Lookup resolves a built-in by name, returning ok=false if name is not a
// built-in.
func (b *Builtins) Lookup(name string) (*tyvar.Var, bool) {
	v, ok := b.byName[name]
	return v, ok
}
