package types

import (
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// SchemeParam is one of a scheme's bound type parameters: its surface name
// (§3 Names) and the rigid variable standing for it in Body.
type SchemeParam struct {
	Name TypeParamName
	V    *tyvar.Var
}

// Scheme is a (possibly trivial) universally quantified type (C9): zero or
// more bound rigid type parameters, closing over Body. An empty Params
// scheme is a monomorphic type wrapped for uniformity, matching the
// teacher's own "every binding has a scheme, monomorphic or not" convention.
type Scheme struct {
	Params []SchemeParam
	Body   Type
}

// OfType wraps a monomorphic type as a scheme with no bound parameters.
func OfType(t Type) *Scheme {
	return &Scheme{Body: t}
}

// Refresh instantiates the scheme: every bound parameter is replaced by a
// fresh rigid of the same kind, allocated at sc's current level, and the
// substitution is applied to Body. It returns the instantiated type plus the
// fresh variables in parameter order, so a caller doing implicit-parameter
// resolution can match them back to their TypeParamName (§4.8's "delayed
// permutations" case: a polymorphic value applied at an effect type refreshes
// the binder rather than ever mutating it).
func (sch *Scheme) Refresh(supply *ids.Supply, sc *scope.Scope) (Type, []*tyvar.Var) {
	s := Empty()
	fresh := make([]*tyvar.Var, len(sch.Params))
	for i, p := range sch.Params {
		f := tyvar.New(supply, p.V.Name(), p.V.Kind(), sc.Level())
		fresh[i] = f
		s = s.RenameToFresh(f, p.V)
	}
	return s.Apply(sch.Body), fresh
}

// FindIndex returns the index of the parameter with the given name, or -1 if
// none matches (§3: named type application resolves by TypeParamName).
func (sch *Scheme) FindIndex(name TypeParamName) int {
	for i, p := range sch.Params {
		if p.Name.Equal(name) {
			return i
		}
	}
	return -1
}

// CollectUVars returns every unset unification variable reachable from t
// through the store, each listed once, in first-encountered order. Used by
// generalization to decide which uvars a let-binding is free to quantify
// over, and by diagnostics to report every outstanding cell in a failed
// phase.
func (s *Store) CollectUVars(t Type) []ids.ID {
	seen := map[ids.ID]bool{}
	var order []ids.ID
	var walk func(Type)
	walkRow := func(e RowEnd) {
		switch h := e.(type) {
		case REUVar:
			if r, ok := s.viewRowCell(h); ok {
				walk(r)
				return
			}
			if !seen[h.ID] {
				seen[h.ID] = true
				order = append(order, h.ID)
			}
		case REApp:
			walk(h.Fn)
			walk(h.Arg)
		}
	}
	walk = func(t Type) {
		switch h := s.View(t).(type) {
		case *TUVar:
			if !seen[h.ID] {
				seen[h.ID] = true
				order = append(order, h.ID)
			}
		case *TVar, *TEffect:
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
	return order
}

// ConDecl is a single data constructor belonging to an algebraic data type:
// its argument types in declaration order (§4.11 Strict positivity; §6
// Supplemented feature — the CORE needs constructor shapes to decide when a
// recursive type may be pattern-matched purely).
type ConDecl struct {
	Name string
	Args []Type
}

// TypeDecl is an algebraic data type declaration: the rigid standing for the
// type being defined (so recursive occurrences can be recognized by
// identity) and its constructors.
type TypeDecl struct {
	Self *tyvar.Var
	Cons []ConDecl
}

// StrictlyPositive decides whether d's recursive occurrences of Self are all
// strictly positive, i.e. Self never appears to the left of an arrow within
// any constructor argument, and no uvar mentioned anywhere in a constructor's
// arguments has Self in its recorded scope (§4.7: a uvar whose scope still
// reaches Self could later be set to mention it, so a scope that has not
// already excluded Self is itself treated as a potential negative
// occurrence — the literal spec text parameterizes this over a caller-chosen
// "nonrec_scope" that omits Self; checking direct membership of Self in the
// uvar's own scope here is equivalent and spares every caller from having to
// separately construct that scope). A type failing this check may still be
// declared, but cannot be pattern-matched on purely (the CORE leaves that
// restriction to the surface language; here it only computes the predicate).
func (s *Store) StrictlyPositive(d *TypeDecl) bool {
	var posOK func(t Type, positive bool) bool
	posOK = func(t Type, positive bool) bool {
		switch h := s.View(t).(type) {
		case *TVar:
			if h.V == d.Self {
				return positive
			}
			return true
		case *TUVar:
			return !s.Scope(h.ID).Mem(d.Self)
		case *TEffect:
			return true
		case *TEffRow:
			return rowMentionsOnlyPositively(s, h, d.Self, positive)
		case *TPureArrow:
			return posOK(h.Param.Body, !positive) && posOK(h.Ret, positive)
		case *TArrow:
			return posOK(h.Param.Body, !positive) && posOK(h.Ret, positive) && posOK(h.Row, positive)
		case *THandler:
			return posOK(h.Tp, positive) && posOK(h.ITp, positive) && posOK(h.IEff, positive) &&
				posOK(h.OTp, positive) && posOK(h.OEff, positive)
		case *TLabel:
			return posOK(h.Tp, positive) && posOK(h.Row, positive)
		case *TApp:
			// The head of an application is checked at the current
			// polarity; its argument is always checked as a positive
			// position, whatever the polarity of the application itself.
			return posOK(h.Fn, positive) && posOK(h.Arg, true)
		default:
			return true
		}
	}
	for _, c := range d.Cons {
		for _, arg := range c.Args {
			if !posOK(arg, true) {
				return false
			}
		}
	}
	return true
}

func rowMentionsOnlyPositively(s *Store, r *TEffRow, self *tyvar.Var, positive bool) bool {
	view := s.ViewRow(r)
	for v := range view.Elems {
		if v == self && !positive {
			return false
		}
	}
	switch end := view.End.(type) {
	case RAppView:
		if !positive {
			if fv, ok := end.Fn.(*TVar); ok && fv.V == self {
				return false
			}
		}
	case RUVarView:
		if s.Scope(end.ID).Mem(self) {
			return false
		}
	}
	return true
}
