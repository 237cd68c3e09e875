// Package diagnostics implements the CORE's error channel (C13): a
// process-wide, session-scoped record of reported diagnostics with four
// severities and an explicit reset, plus the phase-barrier assertion the
// surrounding phase calls at its end (§4.9, §7).
package diagnostics

import (
	"fmt"

	"github.com/fatih/color"
)

// Severity classifies a reported diagnostic, from least to most serious.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Class names the category of error recognized by the CORE (§7).
type Class string

// The five error kinds §7 recognizes, plus a generic bucket for the
// phase-barrier's own summary report.
const (
	ClassKindConflict     Class = "kind_conflict"
	ClassScopeEscape      Class = "scope_escape"
	ClassNonEffect        Class = "non_effect_violation"
	ClassOccursCheck      Class = "occurs_check"
	ClassStrictPositivity Class = "strict_positivity"
	ClassGeneric          Class = "generic"
)

// Diagnostic is one reported message.
type Diagnostic struct {
	Severity Severity
	Class    Class
	Pos      string // source position, "" if unavailable (§6: positions come from the Frontend)
	Message  string
}

var (
	paintFatal = color.New(color.FgRed, color.Bold).SprintFunc()
	paintError = color.New(color.FgRed).SprintFunc()
	paintWarn  = color.New(color.FgYellow).SprintFunc()
	paintNote  = color.New(color.FgCyan).SprintFunc()
)

func (d Diagnostic) String() string {
	var sev string
	switch d.Severity {
	case Fatal:
		sev = paintFatal(d.Severity.String())
	case Error:
		sev = paintError(d.Severity.String())
	case Warning:
		sev = paintWarn(d.Severity.String())
	default:
		sev = paintNote(d.Severity.String())
	}
	if d.Pos != "" {
		return fmt.Sprintf("%s: %s [%s]: %s", d.Pos, sev, d.Class, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", sev, d.Class, d.Message)
}

// AbortSignal is the distinguished value panicked with by a Fatal report
// (§5 Cancellation/timeouts, §7 Policy: "FatalError ... raises immediately").
// A session's caller recovers this at the top of its teardown path; any
// partially mutated store below it is simply discarded.
type AbortSignal struct {
	Diagnostic Diagnostic
}

func (a AbortSignal) Error() string { return a.Diagnostic.String() }

// Channel accumulates diagnostics in report order for one session.
type Channel struct {
	reports []Diagnostic
	hasErr  bool

	// Policy remaps a severity before it is recorded — e.g. a session
	// config (internal/sessioncfg) promoting Warning to Error for a strict
	// CI run. A nil Policy records severities unchanged. A Fatal report
	// bypasses Policy: it is recorded as Fatal and panics. A non-Fatal
	// report that Policy maps to Fatal panics too (see Report).
	Policy func(Severity) Severity
}

// NewChannel returns an empty channel with no severity policy.
func NewChannel() *Channel { return &Channel{} }

// Reset clears every recorded diagnostic, as if the channel were newly
// created. Used when a surrounding phase has finished recovering from
// non-fatal errors.
func (c *Channel) Reset() {
	c.reports = nil
	c.hasErr = false
}

// Report records a diagnostic. A Fatal report panics with AbortSignal
// immediately instead of returning, per §7 Policy.
func (c *Channel) Report(pos string, sev Severity, class Class, format string, args ...any) {
	if c.Policy != nil && sev != Fatal {
		sev = c.Policy(sev)
	}
	d := Diagnostic{Severity: sev, Class: class, Pos: pos, Message: fmt.Sprintf(format, args...)}
	c.reports = append(c.reports, d)
	if sev == Error || sev == Fatal {
		c.hasErr = true
	}
	if sev == Fatal {
		panic(AbortSignal{Diagnostic: d})
	}
}

// All returns every diagnostic reported since the last Reset, in FIFO
// report order — the only observable ordering the CORE guarantees (§5).
func (c *Channel) All() []Diagnostic {
	out := make([]Diagnostic, len(c.reports))
	copy(out, c.reports)
	return out
}

func (c *Channel) errorCount() int {
	n := 0
	for _, d := range c.reports {
		if d.Severity == Error || d.Severity == Fatal {
			n++
		}
	}
	return n
}

// Counts returns, for each severity that has been reported at least once
// since the last Reset, how many diagnostics of that severity were recorded.
// Deterministic: the tally is taken from reports in FIFO order, the same
// order All() exposes them in.
func (c *Channel) Counts() map[Severity]int {
	out := make(map[Severity]int, 4)
	for _, d := range c.reports {
		out[d.Severity]++
	}
	return out
}

// HasError reports whether at least one Error or Fatal has been recorded
// since the last Reset.
func (c *Channel) HasError() bool { return c.hasErr }

// AssertNoError raises Fatal iff at least one Error or Fatal has been
// recorded since the last Reset — the phase-barrier call every recoverable
// phase makes at its end (§4.9, §7).
func (c *Channel) AssertNoError() {
	if c.hasErr {
		c.Report("", Fatal, ClassGeneric, "phase failed with %d error(s)", c.errorCount())
	}
}
