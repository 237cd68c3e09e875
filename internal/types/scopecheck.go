package types

import (
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// TryShrinkScope attempts to narrow id's recorded scope to target. An unset
// cell can always be shrunk — nothing has been substituted into it yet, so
// no rigid dependency can be stranded. A set cell can only be shrunk if
// every rigid free in its content already lies within target; otherwise a
// rigid the content depends on would escape its binder, and the shrink is
// refused (§4.11 Scope shrinking — this is the one-cell primitive that
// ShrinkScope is built from).
func (s *Store) TryShrinkScope(id ids.ID, target *scope.Scope) bool {
	c := s.cellOf(id)
	if c.state == set && !s.freeVarsSubset(c.content, target) {
		return false
	}
	c.scope = target
	return true
}

func (s *Store) freeVarsSubset(t Type, sc *scope.Scope) bool {
	ok := true
	var walk func(Type)
	var walkRow func(RowEnd)
	walkRow = func(e RowEnd) {
		if !ok {
			return
		}
		switch h := e.(type) {
		case REVar:
			if !sc.Mem(h.V) {
				ok = false
			}
		case REUVar:
			if r, present := s.viewRowCell(h); present {
				for v := range r.Elems {
					if !sc.Mem(v) {
						ok = false
						return
					}
				}
				walkRow(r.End)
			}
		case REApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk = func(t Type) {
		if !ok {
			return
		}
		switch h := s.View(t).(type) {
		case *TVar:
			if !sc.Mem(h.V) {
				ok = false
			}
		case *TUVar:
		case *TEffect:
			for v := range h.Elems {
				if !sc.Mem(v) {
					ok = false
					return
				}
			}
		case *TEffRow:
			for v := range h.Elems {
				if !sc.Mem(v) {
					ok = false
					return
				}
			}
			walkRow(h.End)
		case *TPureArrow:
			walk(h.Param.Body)
			walk(h.Ret)
		case *TArrow:
			walk(h.Param.Body)
			walk(h.Ret)
			walk(h.Row)
		case *THandler:
			if !sc.Mem(h.A) {
				ok = false
				return
			}
			walk(h.Tp)
			walk(h.ITp)
			walk(h.IEff)
			walk(h.OTp)
			walk(h.OEff)
		case *TLabel:
			if !sc.Mem(h.E) {
				ok = false
				return
			}
			walk(h.Tp)
			walk(h.Row)
		case *TApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk(t)
	return ok
}

// firstEscapingVar walks t exactly like freeVarsSubset, but returns the first
// free rigid found outside sc instead of a bare bool, so a caller can report
// which variable escaped (§4.8: try_shrink_scope's "Err v" case).
func (s *Store) firstEscapingVar(t Type, sc *scope.Scope) (*tyvar.Var, bool) {
	var escaping *tyvar.Var
	var walk func(Type)
	var walkRow func(RowEnd)
	note := func(v *tyvar.Var) {
		if escaping == nil && !sc.Mem(v) {
			escaping = v
		}
	}
	walkRow = func(e RowEnd) {
		if escaping != nil {
			return
		}
		switch h := e.(type) {
		case REVar:
			note(h.V)
		case REUVar:
			if r, present := s.viewRowCell(h); present {
				for v := range r.Elems {
					note(v)
					if escaping != nil {
						return
					}
				}
				walkRow(r.End)
			}
		case REApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk = func(t Type) {
		if escaping != nil {
			return
		}
		switch h := s.View(t).(type) {
		case *TVar:
			note(h.V)
		case *TUVar:
		case *TEffect:
			for v := range h.Elems {
				note(v)
				if escaping != nil {
					return
				}
			}
		case *TEffRow:
			for v := range h.Elems {
				note(v)
				if escaping != nil {
					return
				}
			}
			walkRow(h.End)
		case *TPureArrow:
			walk(h.Param.Body)
			walk(h.Ret)
		case *TArrow:
			walk(h.Param.Body)
			walk(h.Ret)
			walk(h.Row)
		case *THandler:
			note(h.A)
			walk(h.Tp)
			walk(h.ITp)
			walk(h.IEff)
			walk(h.OTp)
			walk(h.OEff)
		case *TLabel:
			note(h.E)
			walk(h.Tp)
			walk(h.Row)
		case *TApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk(t)
	return escaping, escaping == nil
}

// collectMentionedUVarIDs gathers every TUVar/REUVar id mentioned anywhere in
// t, set or unset, for ShrinkScope to narrow in one pass.
func (s *Store) collectMentionedUVarIDs(t Type, out map[ids.ID]bool) {
	var walk func(Type)
	var walkRow func(RowEnd)
	walkRow = func(e RowEnd) {
		switch h := e.(type) {
		case REUVar:
			out[h.ID] = true
			if r, present := s.viewRowCell(h); present {
				walkRow(r.End)
			}
		case REApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk = func(t Type) {
		switch h := t.(type) {
		case *TUVar:
			out[h.ID] = true
			if s.cellOf(h.ID).state == set {
				walk(s.View(t))
			}
		case *TEffRow:
			walkRow(h.End)
		case *TPureArrow:
			walk(h.Param.Body)
			walk(h.Ret)
		case *TArrow:
			walk(h.Param.Body)
			walk(h.Ret)
			walk(h.Row)
		case *THandler:
			walk(h.Tp)
			walk(h.ITp)
			walk(h.IEff)
			walk(h.OTp)
			walk(h.OEff)
		case *TLabel:
			walk(h.Tp)
			walk(h.Row)
		case *TApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk(t)
}

// ShrinkScope is Type.try_shrink_scope (§4.8): walks t, and on success
// narrows the recorded scope of every uvar mentioned anywhere within t to
// target (via TryShrinkScope, one cell at a time — extending a uvar's scope
// with rigids not actually present in any mention is benign, per this
// module's resolution of Open Question (i)). Returns the first free rigid of
// t found outside target and ok=false if any rigid escapes; ok=true and a
// nil rigid otherwise (P9).
func (s *Store) ShrinkScope(t Type, target *scope.Scope) (*tyvar.Var, bool) {
	if v, ok := s.firstEscapingVar(t, target); !ok {
		return v, false
	}
	mentioned := map[ids.ID]bool{}
	s.collectMentionedUVarIDs(t, mentioned)
	for id := range mentioned {
		s.TryShrinkScope(id, target)
	}
	return nil, true
}

func rowEndFromView(v RowEndView) RowEnd {
	switch h := v.(type) {
	case RPure:
		return REClosed{}
	case RUVarView:
		return REUVar{Perm: perm.Identity(), ID: h.ID}
	case RVarView:
		return REVar{V: h.V}
	case RAppView:
		return REApp{Fn: h.Fn, Arg: h.Arg}
	default:
		panic("types: rowEndFromView: unhandled RowEndView")
	}
}

// openElemDown locates the simple effect rigid v within row, searching
// downward from its head: if v is already one of row's (normalized)
// elements, it returns the rest of the row with v removed; if row's end is
// still an open uvar, it extends that uvar with v plus a fresh open tail and
// returns the rest with the fresh tail as its end; otherwise (a closed end, a
// rigid row variable, or a neutral application not mentioning v) it fails.
// This is the find-or-insert primitive Leijen's rewriteRow needs, not a named
// spec.md operation in its own right — row unification (unify.go) calls
// openElemDown on its left operand to find-or-insert each simple element of
// its right operand (distinct from the Type-level OpenDown/OpenUp below,
// which implement spec.md §4.8's bidirectional row-subsumption walk and
// happen to share spec.md's own row-rewrite vocabulary).
func (s *Store) openElemDown(row *TEffRow, v *tyvar.Var, sc *scope.Scope) (*TEffRow, bool) {
	view := s.ViewRow(row)
	if _, present := view.Elems[v]; present {
		rest := cloneSet(view.Elems)
		delete(rest, v)
		return &TEffRow{Elems: rest, End: rowEndFromView(view.End)}, true
	}
	switch end := view.End.(type) {
	case RUVarView:
		tailID := s.supply.Fresh()
		s.cells[tailID] = &cell{kind: kinds.EffRow, scope: sc, cellPerm: perm.Identity()}
		tail := REUVar{Perm: perm.Identity(), ID: tailID}
		s.RawSetRow(REUVar{Perm: perm.Identity(), ID: end.ID},
			&TEffRow{Elems: toSet([]*tyvar.Var{v}), End: tail})
		return &TEffRow{Elems: view.Elems, End: tail}, true
	default:
		return nil, false
	}
}

// openElemUp is openElemDown's mirror image: it is called when v was already
// found in the *other* operand of a row unification and this row must now be
// shown to subsume it, extending an open tail if necessary. The search
// primitive is identical — whichever side is currently being matched against
// calls openElemDown on itself — openElemUp exists as a distinct, named entry
// point only to keep call sites self-documenting about which operand is
// driving the match.
func (s *Store) openElemUp(row *TEffRow, v *tyvar.Var, sc *scope.Scope) (*TEffRow, bool) {
	return s.openElemDown(row, v, sc)
}

// OpenDown is Type.open_down (§4.8): it walks a well-kinded t and, at every
// negative-polarity position where a CLOSED effect row is found, replaces
// that row's end with a fresh row uvar allocated in sc — widening it so a
// caller may later unify something open against it. OpenUp is its
// positive-polarity mirror. Together they implement bidirectional effect
// subsumption: user-written row literals are always closed, but a function's
// inferred row may need to stay open on either side of an application.
// Polarity starts positive at t itself and flips under every arrow domain,
// matching StrictlyPositive's walk (scheme.go).
func (s *Store) OpenDown(t Type, sc *scope.Scope) Type {
	return s.openRows(t, sc, true, false)
}

// OpenUp is OpenDown's positive-polarity mirror (§4.8).
func (s *Store) OpenUp(t Type, sc *scope.Scope) Type {
	return s.openRows(t, sc, true, true)
}

func (s *Store) openRows(t Type, sc *scope.Scope, positive, trigger bool) Type {
	switch h := s.View(t).(type) {
	case *TEffRow:
		view := s.ViewRow(h)
		if _, closed := view.End.(RPure); closed && positive == trigger {
			return &TEffRow{Elems: cloneSet(view.Elems), End: s.FreshRowUVar(sc)}
		}
		return h
	case *TPureArrow:
		return &TPureArrow{
			Param: &Scheme{Params: h.Param.Params, Body: s.openRows(h.Param.Body, sc, !positive, trigger)},
			Ret:   s.openRows(h.Ret, sc, positive, trigger),
		}
	case *TArrow:
		return &TArrow{
			Param: &Scheme{Params: h.Param.Params, Body: s.openRows(h.Param.Body, sc, !positive, trigger)},
			Ret:   s.openRows(h.Ret, sc, positive, trigger),
			Row:   s.openRows(h.Row, sc, positive, trigger),
		}
	case *THandler:
		return &THandler{
			A:    h.A,
			Tp:   s.openRows(h.Tp, sc, positive, trigger),
			ITp:  s.openRows(h.ITp, sc, positive, trigger),
			IEff: s.openRows(h.IEff, sc, positive, trigger),
			OTp:  s.openRows(h.OTp, sc, positive, trigger),
			OEff: s.openRows(h.OEff, sc, positive, trigger),
		}
	case *TLabel:
		return &TLabel{
			E:   h.E,
			Tp:  s.openRows(h.Tp, sc, positive, trigger),
			Row: s.openRows(h.Row, sc, positive, trigger),
		}
	case *TApp:
		return &TApp{Fn: s.openRows(h.Fn, sc, positive, trigger), Arg: s.openRows(h.Arg, sc, true, trigger)}
	default:
		// *TUVar (still unset — its contents are opaque until set),
		// *TVar, *TEffect: no row to widen, returned unchanged.
		return t
	}
}
