package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dominik-muc/unif/internal/kinds"
)

func TestBuiltinsAreAllTypeKinded(t *testing.T) {
	f := newFixture()
	for name, v := range f.b.All() {
		assert.Equal(t, kinds.Type, v.Kind(), "builtin %q", name)
	}
}

func TestEUnitPrfIsATypeKindedConstantDistinctFromUnit(t *testing.T) {
	f := newFixture()
	assert.Equal(t, kinds.Type, f.ts.KindOf(f.b.EUnitPrf()))
	assert.NotEqual(t, f.b.UnitV, f.b.EUnitPrfV)
}

func TestEUnitPrfCanStandAsAPureArrowsResult(t *testing.T) {
	f := newFixture()
	arrow := f.ts.PureArrow(OfType(f.b.Unit()), f.b.EUnitPrf())
	assert.Equal(t, kinds.Type, f.ts.KindOf(arrow))
}

func TestLookupResolvesEveryBuiltinByName(t *testing.T) {
	f := newFixture()
	for _, name := range []string{"Int", "Int64", "String", "Char", "Bool", "Unit", "EUnitPrf"} {
		v, ok := f.b.Lookup(name)
		assert.True(t, ok, "missing builtin %q", name)
		assert.Same(t, f.b.byName[name], v)
	}
	_, ok := f.b.Lookup("Float")
	assert.False(t, ok)
}
