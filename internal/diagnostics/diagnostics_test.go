package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRecordsInFIFOOrder(t *testing.T) {
	c := NewChannel()
	c.Report("a", Note, ClassGeneric, "first")
	c.Report("b", Warning, ClassGeneric, "second")

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "second", all[1].Message)
}

func TestHasErrorOnlyCountsErrorAndFatal(t *testing.T) {
	c := NewChannel()
	c.Report("a", Note, ClassGeneric, "note")
	c.Report("a", Warning, ClassGeneric, "warn")
	assert.False(t, c.HasError())

	c.Report("a", Error, ClassGeneric, "bad")
	assert.True(t, c.HasError())
}

func TestCountsTalliesEachSeverityIndependently(t *testing.T) {
	c := NewChannel()
	c.Report("a", Note, ClassGeneric, "note")
	c.Report("a", Warning, ClassGeneric, "warn 1")
	c.Report("a", Warning, ClassGeneric, "warn 2")
	c.Report("a", Error, ClassGeneric, "err")

	counts := c.Counts()
	assert.Equal(t, 1, counts[Note])
	assert.Equal(t, 2, counts[Warning])
	assert.Equal(t, 1, counts[Error])
	assert.Equal(t, 0, counts[Fatal])
}

func TestCountsIsEmptyOnAFreshOrResetChannel(t *testing.T) {
	c := NewChannel()
	assert.Empty(t, c.Counts())

	c.Report("a", Warning, ClassGeneric, "warn")
	c.Reset()
	assert.Empty(t, c.Counts())
}

func TestResetClearsEverything(t *testing.T) {
	c := NewChannel()
	c.Report("a", Error, ClassGeneric, "bad")
	c.Reset()
	assert.False(t, c.HasError())
	assert.Empty(t, c.All())
}

func TestFatalPanicsWithAbortSignal(t *testing.T) {
	c := NewChannel()
	assert.PanicsWithValue(t, AbortSignal{Diagnostic{Severity: Fatal, Class: ClassGeneric, Pos: "a", Message: "boom"}}, func() {
		c.Report("a", Fatal, ClassGeneric, "boom")
	})
}

func TestAssertNoErrorRaisesFatalAfterAnError(t *testing.T) {
	c := NewChannel()
	c.Report("a", Error, ClassGeneric, "bad")
	assert.Panics(t, func() { c.AssertNoError() })
}

func TestAssertNoErrorIsANoOpWithoutAnError(t *testing.T) {
	c := NewChannel()
	c.Report("a", Warning, ClassGeneric, "just a warning")
	assert.NotPanics(t, func() { c.AssertNoError() })
}

func TestPolicyRemapsSeverityBeforeRecording(t *testing.T) {
	c := NewChannel()
	c.Policy = func(s Severity) Severity {
		if s == Warning {
			return Error
		}
		return s
	}
	c.Report("a", Warning, ClassGeneric, "promoted")
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, Error, all[0].Severity)
	assert.True(t, c.HasError())
}
