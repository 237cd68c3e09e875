package tyvar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dominik-muc/unif/internal/ids"
	"github.com/dominik-muc/unif/internal/kinds"
)

func TestDistinctAllocationsAreNeverEqualEvenWithTheSameName(t *testing.T) {
	supply := ids.NewSupply()
	a := New(supply, "x", kinds.Type, 0)
	b := New(supply, "x", kinds.Type, 0)
	assert.NotEqual(t, a, b)
	assert.NotSame(t, a, b)
}

func TestAccessorsReportWhatWasPassedToNew(t *testing.T) {
	supply := ids.NewSupply()
	v := New(supply, "a", kinds.Effect, 3)
	assert.Equal(t, "a", v.Name())
	assert.Equal(t, kinds.Effect, v.Kind())
	assert.Equal(t, 3, v.Level())
}

func TestStringFallsBackToAnIDWhenNameIsEmpty(t *testing.T) {
	supply := ids.NewSupply()
	v := New(supply, "", kinds.Type, 0)
	assert.NotEmpty(t, v.String())
	assert.NotEqual(t, "", v.String())
}
