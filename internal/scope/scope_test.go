package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
	"github.com/dominik-muc/unif/internal/perm"
	"github.com/dominik-muc/unif/internal/tyvar"
)

func TestAddingAnAlreadyPresentVariableIsIdempotent(t *testing.T) {
	supply := ids.NewSupply()
	s := Initial()
	s, v := s.AddNamed(supply, "a", kinds.Type)
	again := s.Add(v)
	assert.Same(t, s, again)
}

func TestIncrLevelPreservesVarsButBumpsLevel(t *testing.T) {
	supply := ids.NewSupply()
	s := Initial()
	s, v := s.AddNamed(supply, "a", kinds.Type)
	inner := s.IncrLevel()
	assert.Equal(t, s.Level()+1, inner.Level())
	assert.True(t, inner.Mem(v))
}

func TestOriginalScopeIsUnaffectedByExtension(t *testing.T) {
	supply := ids.NewSupply()
	s := Initial()
	extended, v := s.AddNamed(supply, "a", kinds.Type)
	assert.False(t, s.Mem(v))
	assert.True(t, extended.Mem(v))
}

func TestFilterKeepsOnlyTheSelectedVariablesInOrder(t *testing.T) {
	supply := ids.NewSupply()
	s := Initial()
	s, a := s.AddNamed(supply, "a", kinds.Type)
	s, b := s.AddNamed(supply, "b", kinds.Type)
	s, _ = s.AddNamed(supply, "c", kinds.Type)

	kept := s.Filter(func(v *tyvar.Var) bool {
		return v.Name() != "c"
	})
	require.Len(t, kept.Vars(), 2)
	assert.Equal(t, a, kept.Vars()[0])
	assert.Equal(t, b, kept.Vars()[1])
}

func TestSubReportsWhetherEveryVariableIsAMember(t *testing.T) {
	supply := ids.NewSupply()
	base := Initial()
	base, a := base.AddNamed(supply, "a", kinds.Type)
	sub := Initial().Add(a)
	assert.True(t, sub.Sub(base))

	base2, _ := Initial().AddNamed(supply, "b", kinds.Type)
	assert.False(t, sub.Sub(base2))
}

func TestPermRewritesEveryVariableThroughThePermutation(t *testing.T) {
	supply := ids.NewSupply()
	s := Initial()
	s, a := s.AddNamed(supply, "a", kinds.Type)
	s, b := s.AddNamed(supply, "b", kinds.Type)

	swapped := s.Perm(perm.Swap(a, b))
	require.Len(t, swapped.Vars(), 2)
	assert.Equal(t, b, swapped.Vars()[0])
	assert.Equal(t, a, swapped.Vars()[1])
}
