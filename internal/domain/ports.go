package domain

import "context"

// ProjectScanner enumerates candidate source files under a project root.
type ProjectScanner interface {
	Scan(projectPath string, cfg ProjectConfig) (*ScanResult, error)
}

// ScanResult holds the result of scanning a project directory.
type ScanResult struct {
	RootPath     string   `json:"root_path"`
	SourceFiles  []string `json:"source_files"`
	TestFiles    []string `json:"test_files"`
	SkippedFiles int      `json:"skipped_files"`
	HasGitignore bool     `json:"has_gitignore"`
	HasConfig    bool     `json:"has_config"`
}

// SourceParser turns source text into a concrete syntax tree.
type SourceParser interface {
	Supports(path string) bool
	Parse(ctx context.Context, path string, text []byte) (ParseTree, error)
}

// LayerClassifier resolves the architectural layer of a file path.
type LayerClassifier interface {
	LayerOf(path string) Layer
}

// SecretScanner finds credentials in file text. Failures are treated by
// callers as "no secrets found".
type SecretScanner interface {
	Scan(ctx context.Context, text, filePath string) ([]SecretFinding, error)
}

// ConfigLoader reads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// ResultStore persists per-file analysis results between runs.
type ResultStore interface {
	Load(projectPath string) (*ResultCache, error)
	Save(cache *ResultCache) error
	Fingerprint(data []byte) (string, error)
}

// RunHistory persists one summary entry per analysis run.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}

// GitInfo exposes the version-control facts the analyzer uses.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
	ChangedFiles(projectPath string) ([]string, error)
}
