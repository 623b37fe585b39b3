package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/layerlint/internal/adapters/outbound/scanner"
	"github.com/openkraft/layerlint/internal/domain"
)

const fixtureDir = "../../../../testdata/ts-ddd/clean"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func TestFileScanner_Scan(t *testing.T) {
	s := scanner.New()
	result, err := s.Scan(fixtureDir, domain.DefaultConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, result.SourceFiles, "should find source files")
	assert.Contains(t, result.SourceFiles, "src/domain/aggregates/user/User.ts")
	for _, f := range result.SourceFiles {
		assert.NotContains(t, f, `\`, "paths are slash-separated")
	}
}

func TestFileScanner_SkipsDependencyAndBuildDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/domain/User.ts":             "export class User {}",
		"node_modules/lib/index.js":      "module.exports = {}",
		"dist/domain/User.js":            "",
		".git/hooks/pre-commit.js":       "",
		".layerlint/cache/results.json":  "{}",
		"src/application/CreateUser.tsx": "",
	})

	result, err := scanner.New().Scan(root, domain.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/application/CreateUser.tsx", "src/domain/User.ts"}, result.SourceFiles)
}

func TestFileScanner_SeparatesTestFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/domain/User.ts":                "",
		"src/domain/User.test.ts":           "",
		"src/domain/User.spec.ts":           "",
		"src/domain/__tests__/helpers.ts":   "",
		"src/application/Create.ts":         "",
		"src/application/Create.stories.ts": "",
	})

	result, err := scanner.New().Scan(root, domain.DefaultConfig())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"src/domain/User.test.ts",
		"src/domain/User.spec.ts",
		"src/domain/__tests__/helpers.ts",
	}, result.TestFiles)
	assert.NotContains(t, result.SourceFiles, "src/domain/User.test.ts")
}

func TestFileScanner_ExtensionFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.ts":      "",
		"src/b.js":      "",
		"src/c.go":      "",
		"src/README.md": "",
	})

	cfg := domain.DefaultConfig()
	cfg.Extensions = []string{".ts"}
	result, err := scanner.New().Scan(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, result.SourceFiles)
}

func TestFileScanner_IncludeExcludeGlobs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/domain/User.ts":         "",
		"src/domain/User.d.ts":       "",
		"src/legacy/Old.ts":          "",
		"scripts/seed.ts":            "",
		"src/infrastructure/Repo.ts": "",
	})

	cfg := domain.DefaultConfig()
	cfg.Include = []string{"src/**"}
	cfg.Exclude = append(cfg.Exclude, "src/legacy/**")
	result, err := scanner.New().Scan(root, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/domain/User.ts", "src/infrastructure/Repo.ts"}, result.SourceFiles)
	assert.Equal(t, 3, result.SkippedFiles)
}

func TestFileScanner_HonorsGitignore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":             "generated/\n*.gen.ts\n",
		"src/domain/User.ts":     "",
		"src/domain/User.gen.ts": "",
		"generated/api.ts":       "",
	})

	result, err := scanner.New().Scan(root, domain.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, result.HasGitignore)
	assert.Equal(t, []string{"src/domain/User.ts"}, result.SourceFiles)
}

func TestFileScanner_DetectsConfig(t *testing.T) {
	root := writeTree(t, map[string]string{
		scanner.ConfigFileName: "fail_on: warning\n",
		"src/domain/User.ts":   "",
	})

	result, err := scanner.New().Scan(root, domain.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, result.HasConfig)
	assert.False(t, result.HasGitignore)
}

func TestFileScanner_MissingRootIsError(t *testing.T) {
	_, err := scanner.New().Scan(filepath.Join(t.TempDir(), "missing"), domain.DefaultConfig())
	assert.Error(t, err)
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, scanner.IsTestFile("src/a.test.ts"))
	assert.True(t, scanner.IsTestFile("src/a.spec.tsx"))
	assert.True(t, scanner.IsTestFile("__tests__/a.ts"))
	assert.False(t, scanner.IsTestFile("src/testing/a.ts"))
}
