package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-muc/unif/internal/kinds"
)

func TestFixPromotesAnUnsetUVarToAFreshRigidOfTheSameKind(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)

	extended, v := f.ts.Fix(u)
	assert.True(t, extended.Mem(v))
	assert.Equal(t, kinds.Type, v.Kind())

	resolved := f.ts.View(u)
	got, ok := resolved.(*TVar)
	require.True(t, ok)
	assert.Equal(t, v, got.V)
}

func TestFixPanicsOnAnAlreadySetUVar(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)
	require.True(t, f.ts.Unify(f.ch, "t", f.scope, u, f.b.Int()))

	assert.Panics(t, func() { f.ts.Fix(u) })
}

func TestFixPanicsOnARowKindedUVarAndDirectsToFixRow(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.EffRow, f.scope)

	assert.PanicsWithValue(t, "types: Fix called on a row-kinded uvar; use FixRow", func() { f.ts.Fix(u) })
}

func TestFixRowPromotesAnUnsetRowUVarToAnOpenRowOnAFreshRowRigid(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshRowUVar(f.scope)

	extended, v := f.ts.FixRow(u)
	assert.True(t, extended.Mem(v))
	assert.Equal(t, kinds.EffRow, v.Kind())

	resolved, ok := f.ts.viewRowCell(u)
	require.True(t, ok)
	assert.Empty(t, resolved.Elems)
	end, ok := resolved.End.(REVar)
	require.True(t, ok)
	assert.Equal(t, v, end.V)
}

func TestShrinkScopeNarrowsEveryMentionedUVarOnSuccess(t *testing.T) {
	f := newFixture()
	inner, _ := f.scope.AddNamed(f.supply, "a", kinds.Type)
	u := f.ts.FreshUVar(kinds.Type, inner)

	narrow := f.scope // does not contain the rigid just added to inner
	v, ok := f.ts.ShrinkScope(u, narrow)
	assert.Nil(t, v)
	assert.True(t, ok)
	assert.Equal(t, narrow, f.ts.Scope(u.ID))
}

func TestShrinkScopeFailsWithTheFirstEscapingRigid(t *testing.T) {
	f := newFixture()
	_, a := f.scope.AddNamed(f.supply, "a", kinds.Type)

	escaped, ok := f.ts.ShrinkScope(&TVar{V: a}, f.scope)
	assert.False(t, ok)
	assert.Equal(t, a, escaped)
}

func TestOpenDownWidensAClosedRowAtNegativePolarity(t *testing.T) {
	f := newFixture()
	_, e := f.scope.AddNamed(f.supply, "e", kinds.Effect)
	arrow := &TArrow{Param: OfType(f.b.Int()), Ret: f.b.Bool(), Row: IO(e)}

	opened := f.ts.OpenDown(arrow, f.scope)
	got, ok := opened.(*TArrow)
	require.True(t, ok)

	// The top-level row sits at positive polarity, so OpenDown (which only
	// widens negative-polarity rows) must leave it closed.
	row := got.Row.(*TEffRow)
	_, stillClosed := f.ts.ViewRow(row).End.(RPure)
	assert.True(t, stillClosed)
}

func TestOpenUpWidensAClosedRowAtPositivePolarity(t *testing.T) {
	f := newFixture()
	_, e := f.scope.AddNamed(f.supply, "e", kinds.Effect)
	arrow := &TArrow{Param: OfType(f.b.Int()), Ret: f.b.Bool(), Row: IO(e)}

	opened := f.ts.OpenUp(arrow, f.scope)
	got, ok := opened.(*TArrow)
	require.True(t, ok)

	row := got.Row.(*TEffRow)
	view := f.ts.ViewRow(row)
	assert.Contains(t, view.Elems, e)
	_, stillClosed := view.End.(RPure)
	assert.False(t, stillClosed)
}

func TestShrinkScopeNarrowsAllUVarsMentionedInsideAnArrow(t *testing.T) {
	f := newFixture()
	inner, _ := f.scope.AddNamed(f.supply, "a", kinds.Type)
	paramU := f.ts.FreshUVar(kinds.Type, inner)
	retU := f.ts.FreshUVar(kinds.Type, inner)
	arrow := &TPureArrow{Param: OfType(paramU), Ret: retU}

	v, ok := f.ts.ShrinkScope(arrow, f.scope)
	assert.Nil(t, v)
	assert.True(t, ok)
	assert.Equal(t, f.scope, f.ts.Scope(paramU.ID))
	assert.Equal(t, f.scope, f.ts.Scope(retU.ID))
}
