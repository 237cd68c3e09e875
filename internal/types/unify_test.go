package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominik-muc/unif/internal/kinds"
)

func TestUnifyArrowRequiresMatchingParameterSchemeArity(t *testing.T) {
	f := newFixture()
	_, a := f.scope.AddNamed(f.supply, "a", kinds.Type)
	_, b := f.scope.AddNamed(f.supply, "b", kinds.Type)

	mono := &TPureArrow{Param: OfType(&TVar{V: a}), Ret: f.b.Int()}
	poly := &TPureArrow{
		Param: &Scheme{Params: []SchemeParam{{Name: Anonymous(), V: b}}, Body: &TVar{V: b}},
		Ret:   f.b.Int(),
	}

	ok := f.ts.Unify(f.ch, "t", f.scope, mono, poly)
	assert.False(t, ok)
	assert.True(t, f.ch.HasError())
}

func TestUnifyArrowUnifiesEffectRowInTheThirdPosition(t *testing.T) {
	f := newFixture()
	sc, e := f.scope.AddNamed(f.supply, "e", kinds.Effect)
	row := IO(e)

	u := f.ts.FreshUVar(kinds.EffRow, sc)
	arrow1 := &TArrow{Param: OfType(f.b.Int()), Ret: f.b.Bool(), Row: row}
	arrow2 := &TArrow{Param: OfType(f.b.Int()), Ret: f.b.Bool(), Row: u}

	require.True(t, f.ts.Unify(f.ch, "t", sc, arrow1, arrow2))
	resolved, ok := f.ts.View(u).(*TEffRow)
	require.True(t, ok)
	view := f.ts.ViewRow(resolved)
	assert.Contains(t, view.Elems, e)
	_, closed := view.End.(RPure)
	assert.True(t, closed)
}

func TestMismatchedShapesReportReadableDiagnostics(t *testing.T) {
	f := newFixture()
	ok := f.ts.Unify(f.ch, "t", f.scope, f.b.Int(), f.b.String())
	assert.False(t, ok)

	want := []string{"cannot unify: neutral application shapes differ"}
	got := make([]string, 0, len(f.ch.All()))
	for _, d := range f.ch.All() {
		got = append(got, d.Message)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
}
