package types

import "github.com/dominik-muc/unif/internal/tyvar"

// Subst is a capture-avoiding parallel substitution from rigid type
// variables to arbitrary Types (C8). Unlike ApplyPerm (view.go), Subst is
// not in general a bijection, so it cannot be delayed into a uvar mention's
// Perm: per §4.6, Subst therefore leaves every uvar mention — set or unset —
// untouched. A substitution is only ever applied to a scheme body closed
// over the rigids being replaced, so an opaque uvar mention inside it simply
// has no occurrence of those rigids to replace.
type Subst struct {
	m map[*tyvar.Var]Type
}

// Empty is the substitution defined nowhere.
func Empty() *Subst {
	return &Subst{m: map[*tyvar.Var]Type{}}
}

// AddType extends the substitution with v -> t. It panics if v is already
// mapped: per this CORE's resolution of the substitution Open Question, a
// Subst is built once, incrementally, and never revises an earlier binding
// (doing so would silently invalidate any Type built against the substitution
// so far).
func (s *Subst) AddType(v *tyvar.Var, t Type) *Subst {
	if _, ok := s.m[v]; ok {
		panic("types: Subst.AddType: rebinding an already-substituted rigid variable")
	}
	m := make(map[*tyvar.Var]Type, len(s.m)+1)
	for k, val := range s.m {
		m[k] = val
	}
	m[v] = t
	return &Subst{m: m}
}

// RenameToFresh extends the substitution mapping v to the caller-supplied
// rigid fresh and returns the extended substitution; allocating fresh is
// left to the caller. Used by Scheme.Refresh (scheme.go) to
// instantiate a scheme's bound variables with variables that cannot be
// confused, by identity, with the scheme's own.
func (s *Subst) RenameToFresh(fresh *tyvar.Var, v *tyvar.Var) *Subst {
	return s.AddType(v, &TVar{V: fresh})
}

// Apply rewrites every occurrence of a mapped rigid in t, leaving unmapped
// rigids and every uvar mention (set or unset) untouched.
func (s *Subst) Apply(t Type) Type {
	switch h := t.(type) {
	case *TUVar:
		return h
	case *TVar:
		if repl, ok := s.m[h.V]; ok {
			return repl
		}
		return h
	case *TEffect:
		return &TEffect{Elems: s.substSet(h.Elems)}
	case *TEffRow:
		return s.applyRow(h)
	case *TPureArrow:
		return &TPureArrow{Param: s.applyScheme(h.Param), Ret: s.Apply(h.Ret)}
	case *TArrow:
		return &TArrow{Param: s.applyScheme(h.Param), Ret: s.Apply(h.Ret), Row: s.Apply(h.Row)}
	case *THandler:
		return &THandler{
			A: h.A, Tp: s.Apply(h.Tp),
			ITp: s.Apply(h.ITp), IEff: s.Apply(h.IEff),
			OTp: s.Apply(h.OTp), OEff: s.Apply(h.OEff),
		}
	case *TLabel:
		return &TLabel{E: h.E, Tp: s.Apply(h.Tp), Row: s.Apply(h.Row)}
	case *TApp:
		return &TApp{Fn: s.Apply(h.Fn), Arg: s.Apply(h.Arg)}
	default:
		panic("types: Subst.Apply: unhandled Type")
	}
}

func (s *Subst) substSet(elems map[*tyvar.Var]struct{}) map[*tyvar.Var]struct{} {
	out := make(map[*tyvar.Var]struct{}, len(elems))
	for v := range elems {
		out[v] = struct{}{}
	}
	return out
}

// applyRow substitutes a row's simple elements (which never change identity
// under Subst: an effect rigid substituted for another effect rigid is not a
// case this CORE's source language produces) and its end. A REVar end whose
// variable is mapped must map to another row — its Elems are merged in and
// its End replaces the current one; any other replacement is a caller error.
func (s *Subst) applyRow(r *TEffRow) *TEffRow {
	elems := s.substSet(r.Elems)
	switch h := r.End.(type) {
	case REClosed, REUVar:
		return &TEffRow{Elems: elems, End: h}
	case REVar:
		repl, ok := s.m[h.V]
		if !ok {
			return &TEffRow{Elems: elems, End: h}
		}
		row, ok := repl.(*TEffRow)
		if !ok {
			panic("types: Subst.Apply: row rigid substituted with a non-row type")
		}
		for v := range row.Elems {
			elems[v] = struct{}{}
		}
		return &TEffRow{Elems: elems, End: row.End}
	case REApp:
		return &TEffRow{Elems: elems, End: REApp{Fn: s.Apply(h.Fn), Arg: s.Apply(h.Arg)}}
	default:
		panic("types: Subst.Apply: unhandled RowEnd")
	}
}

func (s *Subst) applyScheme(sch *Scheme) *Scheme {
	params := make([]SchemeParam, len(sch.Params))
	copy(params, sch.Params)
	return &Scheme{Params: params, Body: s.Apply(sch.Body)}
}
