package kinds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-muc/unif/internal/ids"
)

func TestFreshUVarViewsAsItselfUntilSet(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	u := s.FreshUVar(false)

	view := s.View(u)
	got, ok := view.(UVar)
	require.True(t, ok)
	assert.Equal(t, u.ID(), got.ID())

	require.True(t, s.Set(u, Type))
	assert.Equal(t, Type, s.View(u))
}

func TestSetTwicePanics(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	u := s.FreshUVar(false)
	require.True(t, s.Set(u, Type))
	assert.Panics(t, func() { s.Set(u, Effect) })
}

func TestNonEffectUVarRejectsEffectfulKinds(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	u := s.FreshUVar(true)
	assert.False(t, s.Set(u, Effect))
	assert.False(t, s.Set(u, EffRow))
	assert.True(t, s.Set(u, Type))
}

func TestSetNonEffectFlagsAnUnsetUVarIdempotently(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	u := s.FreshUVar(false)
	assert.True(t, s.SetNonEffect(u))
	assert.True(t, s.SetNonEffect(u))
	assert.False(t, s.Set(u, Effect))
}

func TestSetNonEffectFailsOnAConcreteEffectfulKind(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	assert.False(t, s.SetNonEffect(Effect))
	assert.False(t, s.SetNonEffect(EffRow))
	assert.True(t, s.SetNonEffect(Type))
}

func TestArrowKindRequiresANonEffectCodomain(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	assert.Panics(t, func() { s.ArrowKind(Type, Effect) })
	arrow := s.ArrowKind(Type, Type)
	assert.Equal(t, Type, arrow.Cod)
}

func TestArrowsKindCurriesArgumentsOntoTheCodomain(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	k := s.ArrowsKind(Type, Type, Type)
	arrow, ok := k.(*Arrow)
	require.True(t, ok)
	assert.Equal(t, Type, arrow.Dom)
	inner, ok := arrow.Cod.(*Arrow)
	require.True(t, ok)
	assert.Equal(t, Type, inner.Dom)
	assert.Equal(t, Type, inner.Cod)
}

func TestContainsUVarFollowsSetLinksThroughAnArrow(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	inner := s.FreshUVar(false)
	arrow := &Arrow{Dom: Type, Cod: Type}
	require.True(t, s.Set(inner, arrow))

	outer := s.FreshUVar(false)
	wrapping := &Arrow{Dom: outer, Cod: inner}
	assert.True(t, s.ContainsUVar(outer, wrapping))
	assert.False(t, s.ContainsUVar(inner, wrapping))
}

func TestOccursCheckRejectsACyclicKind(t *testing.T) {
	supply := ids.NewSupply()
	s := NewStore(supply)
	u := s.FreshUVar(false)
	cyclic := &Arrow{Dom: Type, Cod: u}
	assert.Panics(t, func() { s.Set(u, cyclic) })
}
