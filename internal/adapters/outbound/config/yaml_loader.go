package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/layerlint/internal/domain"
)

// FileName is the project configuration file read from the analyzed root.
const FileName = ".layerlint.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .layerlint.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .layerlint.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}
	return Parse(data)
}

// Parse decodes and validates config bytes and merges them over the
// defaults.
func Parse(data []byte) (domain.ProjectConfig, error) {
	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	// Validate before merging so errors point at the user's own values.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return mergeConfig(domain.DefaultConfig(), cfg), nil
}

// mergeConfig overlays explicit values on top of the defaults.
// Explicit (non-empty) lists replace the default list entirely.
func mergeConfig(base, override domain.ProjectConfig) domain.ProjectConfig {
	result := base

	if len(override.Include) > 0 {
		result.Include = override.Include
	}
	if len(override.Exclude) > 0 {
		result.Exclude = override.Exclude
	}
	if len(override.Extensions) > 0 {
		result.Extensions = override.Extensions
	}
	if override.FailOn != "" {
		result.FailOn = override.FailOn
	}
	if override.Workers > 0 {
		result.Workers = override.Workers
	}
	if override.SecretScanTimeout != "" {
		result.SecretScanTimeout = override.SecretScanTimeout
	}

	// These have no defaults to merge with.
	result.Layers = override.Layers
	result.Detectors = override.Detectors
	result.Hardcoded = override.Hardcoded

	return result
}

// DefaultFile is the commented config written by `layerlint init`.
const DefaultFile = `# layerlint configuration
# Globs use ** for any number of directories and are matched against
# slash-separated paths relative to the project root.

# include:
#   - "src/**"
exclude:
  - "**/node_modules/**"
  - "**/dist/**"
  - "**/build/**"
  - "**/coverage/**"
  - "**/*.d.ts"

extensions: [".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"]

# Override folder-based layer detection. Values: domain, application,
# infrastructure, shared.
# layers:
#   "src/core/**": domain
#   "src/api/**": infrastructure

# Switch off whole detectors by violation kind.
# detectors:
#   disable: [naming-convention]

hardcoded:
  # allowed_numbers: [3, 60]
  # min_string_length: 3
  # ignore_values: ["localhost"]
  secret_scan: true

# Lowest severity that makes "layerlint analyze --ci" exit non-zero.
fail_on: error

# workers: 8
# secret_scan_timeout: 5s
`
