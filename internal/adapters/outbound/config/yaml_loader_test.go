package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/openkraft/layerlint/internal/adapters/outbound/config"
	"github.com/openkraft/layerlint/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, appconfig.FileName), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
include:
  - "src/**"
layers:
  "src/core/**": domain
detectors:
  disable: [naming-convention]
hardcoded:
  allowed_numbers: [3, 60]
  min_string_length: 5
fail_on: warning
workers: 4
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**"}, cfg.Include)
	assert.Equal(t, "domain", cfg.Layers["src/core/**"])
	assert.False(t, cfg.IsDetectorEnabled(domain.KindNamingConvention))
	assert.True(t, cfg.IsDetectorEnabled(domain.KindHardcodedValue))
	assert.Equal(t, []float64{3, 60}, cfg.Hardcoded.AllowedNumbers)
	require.NotNil(t, cfg.Hardcoded.MinStringLength)
	assert.Equal(t, 5, *cfg.Hardcoded.MinStringLength)
	assert.Equal(t, domain.SeverityWarning, cfg.EffectiveFailOn())
	assert.Equal(t, 4, cfg.Workers)
}

func TestYAMLLoader_MergesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `fail_on: info`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	defaults := domain.DefaultConfig()
	assert.Equal(t, defaults.Extensions, cfg.Extensions)
	assert.Equal(t, defaults.Exclude, cfg.Exclude)
	assert.Equal(t, domain.SeverityInfo, cfg.FailOn)
}

func TestYAMLLoader_ExplicitListsReplaceDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
exclude:
  - "generated/**"
extensions: [".ts"]
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"generated/**"}, cfg.Exclude)
	assert.Equal(t, []string{".ts"}, cfg.Extensions)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .layerlint.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown detector": "detectors:\n  disable: [complexity]\n",
		"unknown severity": "fail_on: fatal\n",
		"negative workers": "workers: -1\n",
		"bad glob":         "exclude: [\"src/[\"]\n",
		"bad timeout":      "secret_scan_timeout: soon\n",
		"bad extension":    "extensions: [ts]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, content)

			_, err := appconfig.New().Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid .layerlint.yaml")
		})
	}
}

func TestYAMLLoader_UnknownLayerNameIsKept(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
layers:
  "src/misc/**": presentation
`)
	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "presentation", cfg.Layers["src/misc/**"])
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestDefaultFile_ParsesCleanly(t *testing.T) {
	cfg, err := appconfig.Parse([]byte(appconfig.DefaultFile))
	require.NoError(t, err)
	assert.True(t, cfg.SecretScanEnabled())
	assert.Equal(t, domain.SeverityError, cfg.EffectiveFailOn())
	assert.Equal(t, domain.DefaultExtensions, cfg.Extensions)
}
