// Package sessioncfg loads the CORE's ambient session configuration:
// the severity demotion/promotion policy the error channel (C13) applies to
// every reported diagnostic before recording it, plus the initial scope
// level a session starts at. Grounded on the teacher's
// internal/eval_harness/spec.go (yaml.v3, read-then-Unmarshal-then-validate).
package sessioncfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dominik-muc/unif/internal/diagnostics"
)

// Config is a session's policy over diagnostic severities and its starting
// scope level. The zero value is the Default policy.
type Config struct {
	// PromoteWarningsToErrors turns every Warning report into an Error —
	// useful for CI-style strict runs of the CLI harness.
	PromoteWarningsToErrors bool `yaml:"promote_warnings_to_errors"`
	// DemoteErrorsToWarnings turns every Error report into a Warning,
	// letting a phase continue past failures it would otherwise abort on
	// (never applies to Fatal, which always aborts regardless of policy).
	DemoteErrorsToWarnings bool `yaml:"demote_errors_to_warnings"`
	// InitialLevel is the scope level a fresh session's Initial scope is
	// bumped to before any rigid is bound — 0 unless a caller is resuming
	// a session nested inside an outer one.
	InitialLevel int `yaml:"initial_level"`
}

// Default is the policy a bare session runs under: no promotion, no
// demotion, level 0.
func Default() *Config {
	return &Config{}
}

// Load reads and validates a YAML session config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sessioncfg: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("sessioncfg: parse %s: %w", path, err)
	}
	if cfg.PromoteWarningsToErrors && cfg.DemoteErrorsToWarnings {
		return nil, fmt.Errorf("sessioncfg: %s: promote_warnings_to_errors and demote_errors_to_warnings are mutually exclusive", path)
	}
	if cfg.InitialLevel < 0 {
		return nil, fmt.Errorf("sessioncfg: %s: initial_level must be non-negative", path)
	}
	return &cfg, nil
}

// Apply maps a reported severity through the session's policy. Fatal is
// never altered: a phase-aborting diagnostic cannot be downgraded away.
func (c *Config) Apply(sev diagnostics.Severity) diagnostics.Severity {
	switch sev {
	case diagnostics.Warning:
		if c.PromoteWarningsToErrors {
			return diagnostics.Error
		}
	case diagnostics.Error:
		if c.DemoteErrorsToWarnings {
			return diagnostics.Warning
		}
	}
	return sev
}
