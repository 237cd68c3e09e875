package types

import (
	"fmt"

	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/tyvar"
)

// cellState is the two-phase lifecycle of a uvar cell: a cell starts Unset,
// and is written at most once to Set (§4.1 invariant: "a uvar cell is
// written at most once").
type cellState int

const (
	unset cellState = iota
	set
)

// cell is the mutable store entry behind one unification variable. content
// is stored in the coordinate system fixed at creation time; any permutation
// later applied to the cell itself (via PermuteCell) accumulates into
// cellPerm rather than rewriting content in place, so that reading the cell
// back out through a mention only ever needs composing two permutations,
// never walking a history of them (§9).
type cell struct {
	kind     kinds.Kind
	scope    *scope.Scope
	state    cellState
	content  Type // valid only once state == set; for an EffRow-kinded cell, always a *TEffRow
	cellPerm *perm.Perm
}

// Store is the CORE's unification-variable store (C6): the mutable cell
// table backing every TUVar / REUVar mention, grounded on the teacher's
// Unifier.bindings but replacing its substitution map with one-shot mutable
// cells plus delayed permutations, as spec.md §9 requires.
type Store struct {
	supply *ids.Supply
	ks     *kinds.Store
	cells  map[ids.ID]*cell
}

// NewStore creates an empty uvar store. ks is the kind store, consulted when
// callers build kind-checked terms (the KindOf/constructor helpers in
// construct.go).
func NewStore(supply *ids.Supply, ks *kinds.Store) *Store {
	return &Store{supply: supply, ks: ks, cells: make(map[ids.ID]*cell)}
}

// FreshUVar allocates a new unset uvar of kind k, visible in sc, and returns
// a zero-permutation mention of it (§4.1).
func (s *Store) FreshUVar(k kinds.Kind, sc *scope.Scope) *TUVar {
	id := s.supply.Fresh()
	s.cells[id] = &cell{kind: k, scope: sc, cellPerm: perm.Identity()}
	return &TUVar{Perm: perm.Identity(), ID: id}
}

// FreshRowUVar is FreshUVar specialized to the EffRow kind, returned as a
// RowEnd mention (§4.5).
func (s *Store) FreshRowUVar(sc *scope.Scope) REUVar {
	id := s.supply.Fresh()
	s.cells[id] = &cell{kind: kinds.EffRow, scope: sc, cellPerm: perm.Identity()}
	return REUVar{Perm: perm.Identity(), ID: id}
}

func (s *Store) cellOf(id ids.ID) *cell {
	c, ok := s.cells[id]
	if !ok {
		panic("types: uvar does not belong to this store")
	}
	return c
}

// Kind returns the kind the uvar was created with.
func (s *Store) Kind(id ids.ID) kinds.Kind { return s.cellOf(id).kind }

// Scope returns the scope the uvar is visible in (possibly narrowed since
// creation by FilterScope).
func (s *Store) Scope(id ids.ID) *scope.Scope { return s.cellOf(id).scope }

// IsSet reports whether the cell has been written.
func (s *Store) IsSet(id ids.ID) bool { return s.cellOf(id).state == set }

// RawSet writes t into the cell named by mention (a TUVar), recording it in
// the cell's own coordinate system. Because the mention may carry a delayed
// permutation relative to the cell's own accumulated cellPerm, t is rewritten
// by the inverse of (mention.Perm ∘ cellPerm) before being linked in, so that
// reading the cell back out through that same mention reproduces exactly t
// (§4.1, §9).
//
// RawSet panics if the cell is already set (one-shot discipline) or if id
// occurs in t. The occurs check here is a last line of defense: Unify
// (unify.go) is expected to have already rejected any t containing mention.
//
// RawSet returns the scope the incoming t must fit into (the cell's own
// recorded scope) — a caller that has not already verified this (Unify's
// bindUVar has) is expected to pass the result to ShrinkScope/a free-variable
// check of its own (§4.3).
func (s *Store) RawSet(mention *TUVar, t Type) *scope.Scope {
	c := s.cellOf(mention.ID)
	if c.state == set {
		panic("types: uvar cell set twice")
	}
	if s.occursUVar(mention.ID, t) {
		panic("types: RawSet called on a type containing its own uvar")
	}
	if !kindsEqual(c.kind, s.KindOf(t)) {
		panic("types: RawSet called with a type whose kind does not match the cell's own")
	}
	total := perm.Compose(c.cellPerm, mention.Perm)
	c.content = ApplyPerm(total.Inverse(), t)
	c.state = set
	return c.scope
}

// Fix promotes an unset uvar to a fresh rigid of the same kind (§3 Lifecycle,
// §4.3): it mints a rigid in the cell's own recorded scope — extending that
// scope with it — then links the cell to that rigid via RawSet, so that every
// future View through mention behaves exactly as the new rigid. Fix panics if
// the cell is already set, matching RawSet's one-shot discipline, and if the
// cell is EffRow-kinded (row uvars fix through FixRow instead, since a row
// cell's content is always a *TEffRow, never a bare *TVar).
func (s *Store) Fix(mention *TUVar) (*scope.Scope, *tyvar.Var) {
	c := s.cellOf(mention.ID)
	if c.state == set {
		panic("types: Fix called on an already-set uvar")
	}
	if c.kind == kinds.EffRow {
		panic("types: Fix called on a row-kinded uvar; use FixRow")
	}
	extended, v := c.scope.AddNamed(s.supply, "", c.kind)
	c.scope = extended
	s.RawSet(mention, &TVar{V: v})
	return extended, v
}

// FixRow is Fix specialized to a row uvar mention (§3, §4.3): it mints a
// fresh EffRow-kinded rigid row variable v and links the cell to the row
// `{} | v`, so every future ViewRow through mention ends in that rigid.
func (s *Store) FixRow(mention REUVar) (*scope.Scope, *tyvar.Var) {
	c := s.cellOf(mention.ID)
	if c.state == set {
		panic("types: FixRow called on an already-set uvar")
	}
	extended, v := c.scope.AddNamed(s.supply, "", kinds.EffRow)
	c.scope = extended
	s.RawSetRow(mention, &TEffRow{Elems: map[*tyvar.Var]struct{}{}, End: REVar{V: v}})
	return extended, v
}

// RawSetRow is RawSet specialized to a row uvar mention, storing a *TEffRow
// (possibly with a non-empty Elems, when the row uvar unifies with another
// open row whose simple part is nonempty) (§4.5, §4.6).
func (s *Store) RawSetRow(mention REUVar, r *TEffRow) {
	c := s.cellOf(mention.ID)
	if c.state == set {
		panic("types: row uvar cell set twice")
	}
	if s.rowEndOccurs(mention.ID, r.End) {
		panic("types: RawSetRow called on a row containing its own uvar in the end")
	}
	total := perm.Compose(c.cellPerm, mention.Perm)
	c.content = ApplyPerm(total.Inverse(), r)
	c.state = set
}

// View resolves one layer of a TUVar mention: if its cell is unset, the
// mention is returned unchanged (as a Type); if set, the cell's content is
// rewritten through the composition of the cell's accumulated permutation
// with the mention's own delayed permutation, and returned. View does not
// recursively force the result into normal form — callers that need that
// call WHNF (§4.1, §9, P2 idempotence).
func (s *Store) View(t Type) Type {
	u, ok := t.(*TUVar)
	if !ok {
		return t
	}
	c := s.cellOf(u.ID)
	if c.state != set {
		return u
	}
	total := perm.Compose(c.cellPerm, u.Perm)
	return ApplyPerm(total, c.content)
}

// viewRowCell resolves a row uvar mention to its stored *TEffRow content,
// rewritten through the composed permutation, returning ok=false if unset.
func (s *Store) viewRowCell(mention REUVar) (*TEffRow, bool) {
	c := s.cellOf(mention.ID)
	if c.state != set {
		return nil, false
	}
	total := perm.Compose(c.cellPerm, mention.Perm)
	r, ok := c.content.(*TEffRow)
	if !ok {
		panic("types: row uvar cell holds non-row content")
	}
	return ApplyPerm(total, r).(*TEffRow), true
}

// PermuteCell applies p to every future reading of id's cell: it composes p
// into the cell's running cellPerm rather than rewriting stored content,
// matching the delayed-permutation discipline of every other mention (§9).
// Used when a bijective renaming (e.g. alpha-renaming a whole scope) must
// reach uvars whose content has not been inspected yet.
func (s *Store) PermuteCell(id ids.ID, p *perm.Perm) {
	c := s.cellOf(id)
	c.cellPerm = perm.Compose(c.cellPerm, p)
}

// FilterScope is filter_scope (§4.3): it narrows id's recorded scope to those
// rigids v with level(v) <= targetLevel or pred(v) — the shape generalization
// uses to shrink a uvar's scope down past a freshly closed let-region while
// still keeping any rigid pred names explicitly (e.g. one still mentioned by
// an outer binding). Unlike TryShrinkScope, FilterScope performs no
// free-variable safety check of its own — per spec.md, the caller guarantees
// any eliminated rigid does not actually occur in id's content, or accepts
// that a later read through the narrowed scope would be unsound.
func (s *Store) FilterScope(id ids.ID, targetLevel int, pred func(*tyvar.Var) bool) {
	c := s.cellOf(id)
	c.scope = c.scope.Filter(func(v *tyvar.Var) bool {
		return v.Level() <= targetLevel || pred(v)
	})
}

// occursUVar is the occurs check: does id appear anywhere within t, looking
// through set uvars along the way?
func (s *Store) occursUVar(id ids.ID, t Type) bool {
	switch h := s.View(t).(type) {
	case *TUVar:
		return h.ID == id
	case *TVar, *TEffect:
		return false
	case *TEffRow:
		return s.rowEndOccurs(id, h.End)
	case *TPureArrow:
		return s.schemeOccurs(id, h.Param) || s.occursUVar(id, h.Ret)
	case *TArrow:
		return s.schemeOccurs(id, h.Param) || s.occursUVar(id, h.Ret) || s.occursUVar(id, h.Row)
	case *THandler:
		return s.occursUVar(id, h.Tp) || s.occursUVar(id, h.ITp) || s.occursUVar(id, h.IEff) ||
			s.occursUVar(id, h.OTp) || s.occursUVar(id, h.OEff)
	case *TLabel:
		return s.occursUVar(id, h.Tp) || s.occursUVar(id, h.Row)
	case *TApp:
		return s.occursUVar(id, h.Fn) || s.occursUVar(id, h.Arg)
	default:
		panic(fmt.Sprintf("types: occursUVar: unhandled case %T", h))
	}
}

func (s *Store) rowEndOccurs(id ids.ID, e RowEnd) bool {
	switch h := e.(type) {
	case REUVar:
		if h.ID == id {
			return true
		}
		if r, ok := s.viewRowCell(h); ok {
			return s.rowEndOccurs(id, r.End)
		}
		return false
	case REApp:
		return s.occursUVar(id, h.Fn) || s.occursUVar(id, h.Arg)
	default:
		return false
	}
}

func (s *Store) schemeOccurs(id ids.ID, sch *Scheme) bool {
	return s.occursUVar(id, sch.Body)
}
