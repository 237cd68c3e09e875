package types

import (
	"fmt"

	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// KindOf computes the kind of an arbitrary Type term on demand (§4.4's
// kind(t)), distinct from Kind(id), which only looks up a uvar cell's
// declared kind by identity: KindOf walks the term itself, following set
// uvars through View, and for a neutral application derives the result from
// the applied spine's own Arrow kind.
func (s *Store) KindOf(t Type) kinds.Kind {
	switch h := s.View(t).(type) {
	case *TUVar:
		return s.Kind(h.ID)
	case *TVar:
		return h.V.Kind()
	case *TEffect:
		return kinds.Effect
	case *TEffRow:
		return kinds.EffRow
	case *TPureArrow, *TArrow, *THandler, *TLabel:
		return kinds.Type
	case *TApp:
		fnKind := s.ks.View(s.KindOf(h.Fn))
		arrow, ok := fnKind.(*kinds.Arrow)
		if !ok {
			panic("types: KindOf: application head is not Arrow-kinded")
		}
		return arrow.Cod
	default:
		panic(fmt.Sprintf("types: KindOf: unhandled Type %T", h))
	}
}

func kindsEqual(a, b kinds.Kind) bool {
	ha, ok := a.(*kinds.Arrow)
	if !ok {
		return a == b
	}
	hb, ok := b.(*kinds.Arrow)
	return ok && kindsEqual(ha.Dom, hb.Dom) && kindsEqual(ha.Cod, hb.Cod)
}

// The constructors below enforce the kind checks spec.md §4.4 assigns to
// t_uvar, t_var, t_pure_arrow, t_arrow, t_handler, t_label, t_effect,
// t_effrow, t_closed_effrow, t_app and t_apps: each panics on an
// ill-kinded argument rather than building a term the rest of the CORE
// would later have to reject, matching the store's existing convention of
// panicking on invariant violations a caller is expected never to trigger
// (kinds.Store.ArrowKind does the same for its own non-effect-codomain
// check).

// Var wraps a rigid variable as a Type mention (t_var). A rigid already
// carries its own kind, so there is nothing left to check.
func (s *Store) Var(v *tyvar.Var) Type { return &TVar{V: v} }

// UVar wraps an existing uvar cell as a zero-permutation mention, checking
// it was created with the expected kind (t_uvar).
func (s *Store) UVar(id ids.ID, expect kinds.Kind) *TUVar {
	if s.Kind(id) != expect {
		panic("types: UVar: mention does not match the cell's declared kind")
	}
	return &TUVar{Perm: perm.Identity(), ID: id}
}

// Effect builds a ground effect from elems, checking every element is
// Effect-kinded (t_effect).
func (s *Store) Effect(elems []*tyvar.Var) Type {
	for _, v := range elems {
		if v.Kind() != kinds.Effect {
			panic("types: Effect: element is not Effect-kinded")
		}
	}
	return &TEffect{Elems: toSet(elems)}
}

// ClosedEffRow builds the closed row containing exactly elems (t_closed_effrow).
func (s *Store) ClosedEffRow(elems []*tyvar.Var) Type {
	return s.EffRowOf(elems, REClosed{})
}

// EffRowOf builds a row of elems closed off by end, checking every element
// is Effect-kinded and, when end is itself a uvar or rigid mention, that it
// is EffRow-kinded (t_effrow).
func (s *Store) EffRowOf(elems []*tyvar.Var, end RowEnd) Type {
	for _, v := range elems {
		if v.Kind() != kinds.Effect {
			panic("types: EffRowOf: element is not Effect-kinded")
		}
	}
	switch h := end.(type) {
	case REUVar:
		if s.Kind(h.ID) != kinds.EffRow {
			panic("types: EffRowOf: end uvar is not EffRow-kinded")
		}
	case REVar:
		if h.V.Kind() != kinds.EffRow {
			panic("types: EffRowOf: end rigid is not EffRow-kinded")
		}
	}
	return &TEffRow{Elems: toSet(elems), End: end}
}

// PureArrow builds a pure (effect-free) arrow, checking the result is
// Type-kinded (t_pure_arrow).
func (s *Store) PureArrow(param *Scheme, ret Type) Type {
	if s.KindOf(ret) != kinds.Type {
		panic("types: PureArrow: result is not Type-kinded")
	}
	return &TPureArrow{Param: param, Ret: ret}
}

// Arrow builds an impure arrow, checking the result is Type-kinded and the
// row is EffRow-kinded (t_arrow).
func (s *Store) Arrow(param *Scheme, ret, row Type) Type {
	if s.KindOf(ret) != kinds.Type {
		panic("types: Arrow: result is not Type-kinded")
	}
	if s.KindOf(row) != kinds.EffRow {
		panic("types: Arrow: row is not EffRow-kinded")
	}
	return &TArrow{Param: param, Ret: ret, Row: row}
}

// Handler builds a first-class handler value, checking the three result
// types are Type-kinded and the two effect rows are EffRow-kinded (t_handler).
func (s *Store) Handler(a *tyvar.Var, tp, itp, ieff, otp, oeff Type) Type {
	for _, t := range []Type{tp, itp, otp} {
		if s.KindOf(t) != kinds.Type {
			panic("types: Handler: a result type is not Type-kinded")
		}
	}
	for _, t := range []Type{ieff, oeff} {
		if s.KindOf(t) != kinds.EffRow {
			panic("types: Handler: an effect row is not EffRow-kinded")
		}
	}
	return &THandler{A: a, Tp: tp, ITp: itp, IEff: ieff, OTp: otp, OEff: oeff}
}

// Label builds a first-class delimiter/label, checking Tp is Type-kinded and
// Row is EffRow-kinded (t_label).
func (s *Store) Label(e *tyvar.Var, tp, row Type) Type {
	if s.KindOf(tp) != kinds.Type {
		panic("types: Label: delimiter type is not Type-kinded")
	}
	if s.KindOf(row) != kinds.EffRow {
		panic("types: Label: row is not EffRow-kinded")
	}
	return &TLabel{E: e, Tp: tp, Row: row}
}

// App builds a single neutral application, checking fn's kind is an Arrow
// whose domain matches arg's kind (t_app).
func (s *Store) App(fn, arg Type) Type {
	arrow, ok := s.KindOf(fn).(*kinds.Arrow)
	if !ok {
		panic("types: App: function position is not Arrow-kinded")
	}
	if !kindsEqual(arrow.Dom, s.KindOf(arg)) {
		panic("types: App: argument kind does not match the domain")
	}
	return &TApp{Fn: fn, Arg: arg}
}

// Apps curries App over args in order:
// Apps(fn, a, b, c) == App(App(App(fn, a), b), c) (t_apps).
func (s *Store) Apps(fn Type, args ...Type) Type {
	t := fn
	for _, a := range args {
		t = s.App(t, a)
	}
	return t
}
