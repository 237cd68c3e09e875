package types

import "github.com/dominik-muc/unif/internal/tyvar"

// Pure is the empty, closed effect row — the row of a computation that
// performs no effects at all (§4.5).
func Pure() Type {
	return &TEffRow{Elems: map[*tyvar.Var]struct{}{}, End: REClosed{}}
}

// ConsEff builds the row containing exactly elems, closed off by end (§4.5).
// Passing a non-nil end lets a caller build an open row directly without
// going through a fresh uvar, e.g. when reconstructing a row from a
// previously computed EffRowView.
func ConsEff(elems []*tyvar.Var, end RowEnd) Type {
	return &TEffRow{Elems: toSet(elems), End: end}
}

// IO is a convenience row of exactly one simple effect, e, closed — the
// common case of a computation that performs a single named effect and
// nothing else.
func IO(e *tyvar.Var) Type {
	return &TEffRow{Elems: toSet([]*tyvar.Var{e}), End: REClosed{}}
}

// ConsEffect is cons_eff(e, rho) (§4.5): splatters a ground effect's elements
// into an existing row rho's simple part, leaving rho's end untouched.
// Consing is idempotent since the elements land in a set: an element rho
// already names is simply re-added, producing the same row.
func (s *Store) ConsEffect(e *TEffect, rho Type) Type {
	row, ok := s.View(rho).(*TEffRow)
	if !ok {
		panic("types: ConsEffect: rho is not an effect row")
	}
	merged := cloneSet(row.Elems)
	for v := range e.Elems {
		merged[v] = struct{}{}
	}
	return &TEffRow{Elems: merged, End: row.End}
}
