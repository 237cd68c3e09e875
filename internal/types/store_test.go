package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-muc/unif/internal/diagnostics"
	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/scope"
	"github.com/dominik-muc/unif/internal/tyvar"
)

type fixture struct {
	supply *ids.Supply
	ks     *kinds.Store
	ts     *Store
	scope  *scope.Scope
	b      *Builtins
	ch     *diagnostics.Channel
}

func newFixture() *fixture {
	supply := ids.NewSupply()
	ks := kinds.NewStore(supply)
	ts := NewStore(supply, ks)
	sc, b := NewBuiltins(supply, scope.Initial())
	return &fixture{supply: supply, ks: ks, ts: ts, scope: sc, b: b, ch: diagnostics.NewChannel()}
}

func TestFreshUVarViewsAsItselfUntilSet(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)

	view := f.ts.View(u)
	got, ok := view.(*TUVar)
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)

	require.True(t, f.ts.Unify(f.ch, "t", f.scope, u, f.b.Int()))
	resolved := f.ts.View(u)
	tv, ok := resolved.(*TVar)
	require.True(t, ok)
	assert.Equal(t, f.b.IntV, tv.V)
}

func TestRawSetReturnsTheCellsOwnScope(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)

	got := f.ts.RawSet(u, f.b.Int())
	assert.Equal(t, f.scope, got)
}

func TestRawSetTwiceIsRejected(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)
	require.True(t, f.ts.Unify(f.ch, "t", f.scope, u, f.b.Int()))
	assert.Panics(t, func() {
		f.ts.RawSet(u, f.b.String())
	})
}

func TestOccursCheckRejectsInfiniteType(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)
	wrapped := &TApp{Fn: f.b.Int(), Arg: u}

	ok := f.ts.Unify(f.ch, "t", f.scope, u, wrapped)
	assert.False(t, ok)
	assert.True(t, f.ch.HasError())

	var found bool
	for _, d := range f.ch.All() {
		if d.Class == diagnostics.ClassOccursCheck {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScopeEscapeIsRejected(t *testing.T) {
	f := newFixture()
	outer := f.scope
	u := f.ts.FreshUVar(kinds.Type, outer)
	inner := outer.IncrLevel()
	_, rigid := inner.AddNamed(f.supply, "r", kinds.Type)

	ok := f.ts.Unify(f.ch, "t", inner, u, &TVar{V: rigid})
	assert.False(t, ok)
	assert.True(t, f.ch.HasError())
}

func TestScopeEscapeAllowedWithinSameScope(t *testing.T) {
	f := newFixture()
	extended, rigid := f.scope.AddNamed(f.supply, "r", kinds.Type)
	u := f.ts.FreshUVar(kinds.Type, extended)

	ok := f.ts.Unify(f.ch, "t", extended, u, &TVar{V: rigid})
	assert.True(t, ok)
}

func TestViewIsIdempotent(t *testing.T) {
	f := newFixture()
	u := f.ts.FreshUVar(kinds.Type, f.scope)
	require.True(t, f.ts.Unify(f.ch, "t", f.scope, u, f.b.Int()))

	first := f.ts.View(u)
	again := f.ts.View(first)
	assert.Equal(t, first, again)
}

func TestWHNFUnfoldsApplicationSpineInReverseOrder(t *testing.T) {
	f := newFixture()
	_, fn := f.scope.AddNamed(f.supply, "f", kinds.Type)
	a, b, c := f.b.Int(), f.b.String(), f.b.Bool()

	spine := &TApp{Fn: &TApp{Fn: &TApp{Fn: &TVar{V: fn}, Arg: a}, Arg: b}, Arg: c}

	view := f.ts.WHNF(spine)
	neutral, ok := view.(NeutralView)
	require.True(t, ok)
	require.Len(t, neutral.ArgsRev, 3)
	assert.Equal(t, c, neutral.ArgsRev[0])
	assert.Equal(t, b, neutral.ArgsRev[1])
	assert.Equal(t, a, neutral.ArgsRev[2])
}

func TestFilterScopeKeepsRigidsAtOrBelowTargetLevelOrMatchingPred(t *testing.T) {
	f := newFixture()
	outer := f.scope.IncrLevel()
	outer, kept := outer.AddNamed(f.supply, "kept", kinds.Type)
	inner := outer.IncrLevel()
	inner, droppedByLevel := inner.AddNamed(f.supply, "dropped", kinds.Type)
	inner, keptByPred := inner.AddNamed(f.supply, "pred-kept", kinds.Type)

	u := f.ts.FreshUVar(kinds.Type, inner)
	f.ts.FilterScope(u.ID, outer.Level(), func(v *tyvar.Var) bool { return v == keptByPred })

	narrowed := f.ts.Scope(u.ID)
	assert.True(t, narrowed.Mem(kept))
	assert.True(t, narrowed.Mem(keptByPred))
	assert.False(t, narrowed.Mem(droppedByLevel))
}

func TestPermuteCellIsObservedThroughExistingMentions(t *testing.T) {
	f := newFixture()
	sc, v1 := f.scope.AddNamed(f.supply, "v1", kinds.Type)
	sc, v2 := sc.AddNamed(f.supply, "v2", kinds.Type)

	u := f.ts.FreshUVar(kinds.Type, sc)
	require.True(t, f.ts.Unify(f.ch, "t", sc, u, &TVar{V: v1}))

	f.ts.PermuteCell(u.ID, perm.Swap(v1, v2))

	resolved := f.ts.View(u)
	tv, ok := resolved.(*TVar)
	require.True(t, ok)
	assert.Equal(t, v2, tv.V)
}
