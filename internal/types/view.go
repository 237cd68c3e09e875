package types

import (
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// ApplyPerm rewrites t through the bijection p. Rigid-variable mentions
// (TVar, REVar, the E/A binders of THandler/TLabel) are rewritten directly;
// uvar mentions (TUVar, REUVar) are NOT forced — p is folded into their own
// delayed Perm instead, since composing a permutation into a mention is
// always safe to defer (§4.6, §9). This is the operation that distinguishes
// renaming from Subst (subst.go): Subst must never touch an unset uvar at
// all, while ApplyPerm always reaches it, just without forcing the cell.
func ApplyPerm(p *perm.Perm, t Type) Type {
	if p.IsIdentity() {
		return t
	}
	switch h := t.(type) {
	case *TUVar:
		return &TUVar{Perm: perm.Compose(h.Perm, p), ID: h.ID}
	case *TVar:
		return &TVar{V: p.Apply(h.V)}
	case *TEffect:
		return &TEffect{Elems: applyPermSet(p, h.Elems)}
	case *TEffRow:
		return &TEffRow{Elems: applyPermSet(p, h.Elems), End: applyPermRowEnd(p, h.End)}
	case *TPureArrow:
		return &TPureArrow{Param: applyPermScheme(p, h.Param), Ret: ApplyPerm(p, h.Ret)}
	case *TArrow:
		return &TArrow{Param: applyPermScheme(p, h.Param), Ret: ApplyPerm(p, h.Ret), Row: ApplyPerm(p, h.Row)}
	case *THandler:
		return &THandler{
			A: p.Apply(h.A), Tp: ApplyPerm(p, h.Tp),
			ITp: ApplyPerm(p, h.ITp), IEff: ApplyPerm(p, h.IEff),
			OTp: ApplyPerm(p, h.OTp), OEff: ApplyPerm(p, h.OEff),
		}
	case *TLabel:
		return &TLabel{E: p.Apply(h.E), Tp: ApplyPerm(p, h.Tp), Row: ApplyPerm(p, h.Row)}
	case *TApp:
		return &TApp{Fn: ApplyPerm(p, h.Fn), Arg: ApplyPerm(p, h.Arg)}
	default:
		panic("types: ApplyPerm: unhandled Type")
	}
}

func applyPermRowEnd(p *perm.Perm, e RowEnd) RowEnd {
	switch h := e.(type) {
	case REClosed:
		return h
	case REUVar:
		return REUVar{Perm: perm.Compose(h.Perm, p), ID: h.ID}
	case REVar:
		return REVar{V: p.Apply(h.V)}
	case REApp:
		return REApp{Fn: ApplyPerm(p, h.Fn), Arg: ApplyPerm(p, h.Arg)}
	default:
		panic("types: ApplyPerm: unhandled RowEnd")
	}
}

func applyPermSet(p *perm.Perm, elems map[*tyvar.Var]struct{}) map[*tyvar.Var]struct{} {
	out := make(map[*tyvar.Var]struct{}, len(elems))
	for v := range elems {
		out[p.Apply(v)] = struct{}{}
	}
	return out
}

func applyPermScheme(p *perm.Perm, sch *Scheme) *Scheme {
	params := make([]SchemeParam, len(sch.Params))
	for i, sp := range sch.Params {
		params[i] = SchemeParam{Name: sp.Name, V: p.Apply(sp.V)}
	}
	return &Scheme{Params: params, Body: ApplyPerm(p, sch.Body)}
}

// WHNFView is the result of unfolding a Type to weak head normal form: a
// neutral application spine, or one of the concrete head shapes the CORE
// distinguishes (§4.7, P2).
type WHNFView interface{ isWHNFView() }

// NeutralView is an unresolved application spine: an unset uvar or a rigid
// variable applied to zero or more arguments, or (degenerate) an arrow,
// handler or label head applied to one or more arguments. ArgsRev lists the arguments in REVERSE application order — the
// outermost argument first — matching a right-to-left walk of nested TApp
// (§4.7): for `f a b c` = TApp(TApp(TApp(f,a),b),c), ArgsRev = [c, b, a].
type NeutralView struct {
	Head    Type
	ArgsRev []Type
}

func (NeutralView) isWHNFView() {}

type EffectView struct{ Elems map[*tyvar.Var]struct{} }

func (EffectView) isWHNFView() {}

// EffRowView is a row fully unfolded to its normal form: all uvar-resolved
// simple elements merged into Elems, and End reduced as far as possible.
type EffRowView struct {
	Elems map[*tyvar.Var]struct{}
	End   RowEndView
}

func (EffRowView) isWHNFView() {}

type PureArrowView struct {
	Param *Scheme
	Ret   Type
}

func (PureArrowView) isWHNFView() {}

type ArrowView struct {
	Param *Scheme
	Ret   Type
	Row   Type
}

func (ArrowView) isWHNFView() {}

type HandlerView struct {
	A                        *tyvar.Var
	Tp, ITp, IEff, OTp, OEff Type
}

func (HandlerView) isWHNFView() {}

type LabelView struct {
	E       *tyvar.Var
	Tp, Row Type
}

func (LabelView) isWHNFView() {}

// RowEndView is a row end unfolded as far as possible: either still open
// (an unset uvar or a rigid row variable), a neutral application, or closed.
type RowEndView interface{ isRowEndView() }

// RPure is the closed, empty end.
type RPure struct{}

func (RPure) isRowEndView() {}

// RUVarView is an end that remains an unset row uvar.
type RUVarView struct{ ID ids.ID }

func (RUVarView) isRowEndView() {}

// RVarView is an end that is a rigid row variable.
type RVarView struct{ V *tyvar.Var }

func (RVarView) isRowEndView() {}

// RAppView is an end that is a neutral type application.
type RAppView struct{ Fn, Arg Type }

func (RAppView) isRowEndView() {}

// WHNF reduces t to weak head normal form: it chases set uvars, unfolds
// TApp spines (collecting arguments in reverse application order), and
// classifies the final head (§4.7, P2: WHNF is idempotent — re-running it on
// its own output returns an equal view).
func (s *Store) WHNF(t Type) WHNFView {
	// Unwind the TApp spine first, resolving the function position through
	// View at each step so a uvar that resolves to another application is
	// followed transparently.
	var argsRev []Type
	cur := s.View(t)
	for {
		app, ok := cur.(*TApp)
		if !ok {
			break
		}
		argsRev = append(argsRev, app.Arg)
		cur = s.View(app.Fn)
	}
	switch h := cur.(type) {
	case *TUVar:
		return NeutralView{Head: h, ArgsRev: argsRev}
	case *TVar:
		return NeutralView{Head: h, ArgsRev: argsRev}
	case *TEffect:
		return EffectView{Elems: cloneSet(h.Elems)}
	case *TEffRow:
		return s.ViewRow(h)
	case *TPureArrow:
		if len(argsRev) == 0 {
			return PureArrowView{Param: h.Param, Ret: h.Ret}
		}
		return NeutralView{Head: h, ArgsRev: argsRev}
	case *TArrow:
		if len(argsRev) == 0 {
			return ArrowView{Param: h.Param, Ret: h.Ret, Row: h.Row}
		}
		return NeutralView{Head: h, ArgsRev: argsRev}
	case *THandler:
		if len(argsRev) == 0 {
			return HandlerView{A: h.A, Tp: h.Tp, ITp: h.ITp, IEff: h.IEff, OTp: h.OTp, OEff: h.OEff}
		}
		return NeutralView{Head: h, ArgsRev: argsRev}
	case *TLabel:
		if len(argsRev) == 0 {
			return LabelView{E: h.E, Tp: h.Tp, Row: h.Row}
		}
		return NeutralView{Head: h, ArgsRev: argsRev}
	default:
		panic("types: WHNF: unhandled Type head")
	}
}

// ViewRow unfolds a row to normal form: it walks the End, and whenever the
// end resolves (through a set row uvar) to another row, merges that row's
// Elems into the accumulator and continues with its End — so the result's
// Elems is the union of every simple element contributed along the chain,
// and End is the first end that does not itself resolve further (§4.5, §4.7,
// P4: row equality is up to permutation of the simple part, which this
// merge-by-set naturally realizes since Go map iteration order carries no
// meaning here — membership, not order, is what consumers must compare).
func (s *Store) ViewRow(r *TEffRow) EffRowView {
	elems := cloneSet(r.Elems)
	end := r.End
	for {
		switch h := end.(type) {
		case REUVar:
			next, ok := s.viewRowCell(h)
			if !ok {
				return EffRowView{Elems: elems, End: RUVarView{ID: h.ID}}
			}
			for v := range next.Elems {
				elems[v] = struct{}{}
			}
			end = next.End
		case REClosed:
			return EffRowView{Elems: elems, End: RPure{}}
		case REVar:
			return EffRowView{Elems: elems, End: RVarView{V: h.V}}
		case REApp:
			return EffRowView{Elems: elems, End: RAppView{Fn: h.Fn, Arg: h.Arg}}
		default:
			panic("types: ViewRow: unhandled RowEnd")
		}
	}
}

// IsPure reports whether a row's normal form is exactly the empty, closed
// row — no simple elements and a closed end (§4.5).
func (s *Store) IsPure(t Type) bool {
	row, ok := s.View(t).(*TEffRow)
	if !ok {
		return false
	}
	v := s.ViewRow(row)
	if len(v.Elems) != 0 {
		return false
	}
	_, closed := v.End.(RPure)
	return closed
}
