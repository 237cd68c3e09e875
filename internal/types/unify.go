package types

import (
	"github.com/dominik-muc/unif/internal/diagnostics"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// Unify is the CORE's top-level unification entry point, grounded on the
// teacher's Unifier.Unify / unifyRows (internal/types/unification.go,
// row_unification.go) but rebuilt against mutable uvar cells instead of a
// substitution map: success links unset cells via RawSet/RawSetRow directly,
// instead of returning a Substitution the caller must separately apply.
//
// Unify assumes both sides are already well-kinded (kind checking is a
// separate concern, C2, expected to have run over the surrounding term
// before unification is attempted); it reports failures through ch and
// returns whether unification succeeded, rather than panicking — only a
// Fatal diagnostic (never raised here) aborts the phase outright.
func (s *Store) Unify(ch *diagnostics.Channel, pos string, sc *scope.Scope, t1, t2 Type) bool {
	v1, v2 := s.WHNF(t1), s.WHNF(t2)

	if n1, ok := v1.(NeutralView); ok {
		if u1, isU := n1.Head.(*TUVar); isU && len(n1.ArgsRev) == 0 {
			return s.bindUVar(ch, pos, u1, t2)
		}
	}
	if n2, ok := v2.(NeutralView); ok {
		if u2, isU := n2.Head.(*TUVar); isU && len(n2.ArgsRev) == 0 {
			return s.bindUVar(ch, pos, u2, t1)
		}
	}

	switch h1 := v1.(type) {
	case NeutralView:
		h2, ok := v2.(NeutralView)
		if !ok || !s.sameNeutralHead(h1.Head, h2.Head) || len(h1.ArgsRev) != len(h2.ArgsRev) {
			return s.mismatch(ch, pos, "neutral application")
		}
		ok = true
		for i := range h1.ArgsRev {
			if !s.Unify(ch, pos, sc, h1.ArgsRev[i], h2.ArgsRev[i]) {
				ok = false
			}
		}
		return ok

	case EffectView:
		h2, ok := v2.(EffectView)
		if !ok || !sameVarSet(h1.Elems, h2.Elems) {
			return s.mismatch(ch, pos, "effect")
		}
		return true

	case EffRowView:
		h2, ok := v2.(EffRowView)
		if !ok {
			return s.mismatch(ch, pos, "effect row")
		}
		return s.unifyRows(ch, pos, sc, h1, h2)

	case PureArrowView:
		h2, ok := v2.(PureArrowView)
		if !ok {
			return s.mismatch(ch, pos, "pure arrow")
		}
		pm, ok := alignSchemes(h1.Param, h2.Param)
		if !ok {
			return s.mismatch(ch, pos, "function parameter scheme")
		}
		a := s.Unify(ch, pos, sc, h1.Param.Body, ApplyPerm(pm, h2.Param.Body))
		b := s.Unify(ch, pos, sc, h1.Ret, ApplyPerm(pm, h2.Ret))
		return a && b

	case ArrowView:
		h2, ok := v2.(ArrowView)
		if !ok {
			return s.mismatch(ch, pos, "arrow")
		}
		pm, ok := alignSchemes(h1.Param, h2.Param)
		if !ok {
			return s.mismatch(ch, pos, "function parameter scheme")
		}
		a := s.Unify(ch, pos, sc, h1.Param.Body, ApplyPerm(pm, h2.Param.Body))
		b := s.Unify(ch, pos, sc, h1.Ret, ApplyPerm(pm, h2.Ret))
		c := s.Unify(ch, pos, sc, h1.Row, ApplyPerm(pm, h2.Row))
		return a && b && c

	case HandlerView:
		h2, ok := v2.(HandlerView)
		if !ok {
			return s.mismatch(ch, pos, "handler")
		}
		pm := perm.Swap(h1.A, h2.A)
		a := s.Unify(ch, pos, sc, h1.Tp, ApplyPerm(pm, h2.Tp))
		b := s.Unify(ch, pos, sc, h1.ITp, ApplyPerm(pm, h2.ITp))
		c := s.Unify(ch, pos, sc, h1.IEff, ApplyPerm(pm, h2.IEff))
		d := s.Unify(ch, pos, sc, h1.OTp, ApplyPerm(pm, h2.OTp))
		e := s.Unify(ch, pos, sc, h1.OEff, ApplyPerm(pm, h2.OEff))
		return a && b && c && d && e

	case LabelView:
		h2, ok := v2.(LabelView)
		if !ok {
			return s.mismatch(ch, pos, "label")
		}
		pm := perm.Swap(h1.E, h2.E)
		a := s.Unify(ch, pos, sc, h1.Tp, ApplyPerm(pm, h2.Tp))
		b := s.Unify(ch, pos, sc, h1.Row, ApplyPerm(pm, h2.Row))
		return a && b

	default:
		return s.mismatch(ch, pos, "type")
	}
}

func (s *Store) mismatch(ch *diagnostics.Channel, pos, what string) bool {
	ch.Report(pos, diagnostics.Error, diagnostics.ClassKindConflict, "cannot unify: %s shapes differ", what)
	return false
}

func (s *Store) sameNeutralHead(h1, h2 Type) bool {
	switch a := h1.(type) {
	case *TVar:
		b, ok := h2.(*TVar)
		return ok && a.V == b.V
	case *TUVar:
		b, ok := h2.(*TUVar)
		return ok && a.ID == b.ID
	default:
		return false
	}
}

func sameVarSet(a, b map[*tyvar.Var]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}

// bindUVar links the unset uvar named by mention to t, after the occurs
// check and the scope-escape check (t's free rigids must already lie within
// the cell's own recorded scope — otherwise a rigid bound after the uvar was
// created would leak into a position that predates it) (§4.1, §4.11).
func (s *Store) bindUVar(ch *diagnostics.Channel, pos string, mention *TUVar, t Type) bool {
	if u2, ok := s.View(t).(*TUVar); ok && u2.ID == mention.ID {
		return true
	}
	if s.occursUVar(mention.ID, t) {
		ch.Report(pos, diagnostics.Error, diagnostics.ClassOccursCheck,
			"occurs check failed: type is infinite")
		return false
	}
	if !s.freeVarsSubset(t, s.Scope(mention.ID)) {
		ch.Report(pos, diagnostics.Error, diagnostics.ClassScopeEscape,
			"type escapes the scope it was created in")
		return false
	}
	s.RawSet(mention, t)
	return true
}

// alignSchemes decides whether two parameter schemes can be unified: same
// arity, same parameter names pairwise, and returns the permutation renaming
// the second scheme's bound variables onto the first's, for use rewriting
// its body and any sibling positions before recursing (§4.8).
func alignSchemes(s1, s2 *Scheme) (*perm.Perm, bool) {
	if len(s1.Params) != len(s2.Params) {
		return nil, false
	}
	p := perm.Identity()
	for i := range s1.Params {
		if !s1.Params[i].Name.Equal(s2.Params[i].Name) {
			return nil, false
		}
		p = perm.Compose(p, perm.Swap(s1.Params[i].V, s2.Params[i].V))
	}
	return p, true
}

// unifyRows unifies two already-ViewRow'd effect rows: every simple element
// of one side is matched (or inserted, if the other side's end is still
// open) against the other via openElemDown/openElemUp, and the two final
// ends are unified once both sides' simple parts agree — this is what
// realizes P4, row equality up to permutation of the simple part (§4.5,
// §4.6).
func (s *Store) unifyRows(ch *diagnostics.Channel, pos string, sc *scope.Scope, r1, r2 EffRowView) bool {
	row1 := &TEffRow{Elems: cloneSet(r1.Elems), End: rowEndFromView(r1.End)}
	row2 := &TEffRow{Elems: cloneSet(r2.Elems), End: rowEndFromView(r2.End)}

	// Every simple element row1 names explicitly must be found (or, if
	// row2's end is still open, inserted) within row2.
	for v := range cloneSet(row1.Elems) {
		rest2, ok := s.openElemUp(row2, v, sc)
		if !ok {
			return s.mismatch(ch, pos, "effect row: missing element")
		}
		row2 = rest2
		delete(row1.Elems, v)
	}
	// Symmetrically, whatever row2 still names and row1 didn't already
	// account for must be found (or inserted into row1's own open tail).
	for v := range cloneSet(row2.Elems) {
		rest1, ok := s.openElemDown(row1, v, sc)
		if !ok {
			return s.mismatch(ch, pos, "effect row: missing element")
		}
		row1 = rest1
		delete(row2.Elems, v)
	}

	finalView1 := s.ViewRow(row1)
	finalView2 := s.ViewRow(row2)
	if len(finalView1.Elems) != 0 || len(finalView2.Elems) != 0 {
		return s.mismatch(ch, pos, "effect row: leftover elements")
	}
	return s.unifyRowEnd(ch, pos, sc, finalView1.End, finalView2.End)
}

func (s *Store) unifyRowEnd(ch *diagnostics.Channel, pos string, sc *scope.Scope, e1, e2 RowEndView) bool {
	if h2, ok := e2.(RUVarView); ok {
		if _, isU := e1.(RUVarView); !isU {
			return s.bindRowUVar(ch, pos, REUVar{Perm: perm.Identity(), ID: h2.ID}, e1)
		}
	}
	switch h1 := e1.(type) {
	case RPure:
		_, ok := e2.(RPure)
		if !ok {
			return s.mismatch(ch, pos, "effect row end")
		}
		return true
	case RVarView:
		h2, ok := e2.(RVarView)
		if !ok || h1.V != h2.V {
			return s.mismatch(ch, pos, "effect row end")
		}
		return true
	case RUVarView:
		mention := REUVar{Perm: perm.Identity(), ID: h1.ID}
		return s.bindRowUVar(ch, pos, mention, e2)
	case RAppView:
		h2, ok := e2.(RAppView)
		if !ok {
			return s.mismatch(ch, pos, "effect row end")
		}
		a := s.Unify(ch, pos, sc, h1.Fn, h2.Fn)
		b := s.Unify(ch, pos, sc, h1.Arg, h2.Arg)
		return a && b
	default:
		return s.mismatch(ch, pos, "effect row end")
	}
}

func (s *Store) bindRowUVar(ch *diagnostics.Channel, pos string, mention REUVar, e RowEndView) bool {
	if h2, ok := e.(RUVarView); ok && h2.ID == mention.ID {
		return true
	}
	r := &TEffRow{Elems: map[*tyvar.Var]struct{}{}, End: rowEndFromView(e)}
	if s.rowEndOccurs(mention.ID, r.End) {
		ch.Report(pos, diagnostics.Error, diagnostics.ClassOccursCheck,
			"occurs check failed: effect row is infinite")
		return false
	}
	s.RawSetRow(mention, r)
	return true
}
