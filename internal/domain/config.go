package domain

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ProjectConfig holds project-level configuration loaded from .layerlint.yaml.
type ProjectConfig struct {
	Include           []string          `yaml:"include"             json:"include,omitempty"`
	Exclude           []string          `yaml:"exclude"             json:"exclude,omitempty"`
	Extensions        []string          `yaml:"extensions"          json:"extensions,omitempty"`
	Layers            map[string]string `yaml:"layers"              json:"layers,omitempty"`
	Detectors         DetectorConfig    `yaml:"detectors"           json:"detectors,omitempty"`
	Hardcoded         HardcodedConfig   `yaml:"hardcoded"           json:"hardcoded,omitempty"`
	FailOn            string            `yaml:"fail_on"             json:"fail_on,omitempty"`
	Workers           int               `yaml:"workers"             json:"workers,omitempty"`
	SecretScanTimeout string            `yaml:"secret_scan_timeout" json:"secret_scan_timeout,omitempty"`
}

// DetectorConfig switches whole detectors off.
type DetectorConfig struct {
	Disable []string `yaml:"disable" json:"disable,omitempty"`
}

// HardcodedConfig tunes the hardcoded value detector.
// Pointer types distinguish "not specified" from zero values.
type HardcodedConfig struct {
	AllowedNumbers  []float64 `yaml:"allowed_numbers,omitempty"   json:"allowed_numbers,omitempty"`
	MinStringLength *int      `yaml:"min_string_length,omitempty" json:"min_string_length,omitempty"`
	IgnoreValues    []string  `yaml:"ignore_values,omitempty"     json:"ignore_values,omitempty"`
	SecretScan      *bool     `yaml:"secret_scan,omitempty"       json:"secret_scan,omitempty"`
}

// DefaultExtensions are the source dialects the parser understands.
var DefaultExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

var defaultExclude = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/coverage/**",
	"**/*.d.ts",
}

const defaultSecretScanTimeout = 5 * time.Second

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Extensions: append([]string(nil), DefaultExtensions...),
		Exclude:    append([]string(nil), defaultExclude...),
		FailOn:     SeverityError,
	}
}

// IsDetectorEnabled reports whether the detector for kind is switched on.
func (c ProjectConfig) IsDetectorEnabled(kind ViolationKind) bool {
	for _, d := range c.Detectors.Disable {
		if ViolationKind(d) == kind {
			return false
		}
	}
	return true
}

// SecretScanEnabled reports whether secret scanning runs; it defaults on.
func (c ProjectConfig) SecretScanEnabled() bool {
	return c.Hardcoded.SecretScan == nil || *c.Hardcoded.SecretScan
}

// SecretTimeout returns the per-file secret scanner budget.
func (c ProjectConfig) SecretTimeout() time.Duration {
	if c.SecretScanTimeout == "" {
		return defaultSecretScanTimeout
	}
	d, err := time.ParseDuration(c.SecretScanTimeout)
	if err != nil || d <= 0 {
		return defaultSecretScanTimeout
	}
	return d
}

// EffectiveFailOn returns the CI threshold severity.
func (c ProjectConfig) EffectiveFailOn() string {
	if c.FailOn == "" {
		return SeverityError
	}
	return c.FailOn
}

// Validate checks the config for invalid values and returns a descriptive error.
// Layer names in Layers are deliberately not validated here: an unknown name
// only disables layer checks for the matching files.
func (c ProjectConfig) Validate() error {
	// 1. globs must compile
	for _, group := range [][]string{c.Include, c.Exclude} {
		for _, g := range group {
			if !doublestar.ValidatePattern(g) {
				return fmt.Errorf("invalid glob pattern %q", g)
			}
		}
	}
	for g := range c.Layers {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("invalid glob pattern %q in layers", g)
		}
	}

	// 2. detector kinds must be known
	for _, d := range c.Detectors.Disable {
		if !isValidKind(d) {
			return fmt.Errorf("unknown detector %q in detectors.disable", d)
		}
	}

	// 3. fail_on must be a known severity
	if c.FailOn != "" && SeverityRank(c.FailOn) == 0 {
		return fmt.Errorf("unknown fail_on severity %q (valid: error, warning, info)", c.FailOn)
	}

	// 4. workers cannot be negative
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}

	// 5. timeout must parse
	if c.SecretScanTimeout != "" {
		d, err := time.ParseDuration(c.SecretScanTimeout)
		if err != nil {
			return fmt.Errorf("invalid secret_scan_timeout %q: %w", c.SecretScanTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("secret_scan_timeout must be positive (got %s)", d)
		}
	}

	// 6. extensions must start with a dot
	for _, ext := range c.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}

	// 7. min_string_length must be positive if set
	if p := c.Hardcoded.MinStringLength; p != nil && *p <= 0 {
		return fmt.Errorf("hardcoded.min_string_length must be > 0 (got %d)", *p)
	}

	return nil
}

func isValidKind(name string) bool {
	for _, k := range ValidViolationKinds {
		if string(k) == name {
			return true
		}
	}
	return false
}
