package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/openkraft/layerlint/internal/domain"
)

// ConfigFileName is the project config file looked for at the root.
const ConfigFileName = ".layerlint.yaml"

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".layerlint":   true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".next":        true,
	".turbo":       true,
}

// IsSkippedDir reports whether a directory name is never descended into.
func IsSkippedDir(name string) bool { return skipDirs[name] }

// FileScanner implements domain.ProjectScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan lists source files under projectPath. Paths in the result are
// slash-separated and relative to the root. Only a root that cannot be read
// is an error; unreadable subdirectories are skipped.
func (s *FileScanner) Scan(projectPath string, cfg domain.ProjectConfig) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(absPath + " is not a directory")
	}

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}

	result := &domain.ScanResult{RootPath: absPath}
	gi := loadGitignore(absPath)
	result.HasGitignore = gi != nil
	if _, err := os.Stat(filepath.Join(absPath, ConfigFileName)); err == nil {
		result.HasConfig = true
	}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == absPath {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absPath {
			return nil
		}

		relPath, err := filepath.Rel(absPath, path)
		if err != nil {
			return nil
		}
		rel := filepath.ToSlash(relPath)

		if d.IsDir() {
			if skipDirs[d.Name()] || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !extSet[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		if (gi != nil && gi.MatchesPath(rel)) || matchesAny(cfg.Exclude, rel) {
			result.SkippedFiles++
			return nil
		}
		if len(cfg.Include) > 0 && !matchesAny(cfg.Include, rel) {
			result.SkippedFiles++
			return nil
		}

		if IsTestFile(rel) {
			result.TestFiles = append(result.TestFiles, rel)
		} else {
			result.SourceFiles = append(result.SourceFiles, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.SourceFiles)
	sort.Strings(result.TestFiles)
	return result, nil
}

// IsTestFile recognises *.test.* and *.spec.* files and anything under a
// __tests__ folder.
func IsTestFile(rel string) bool {
	base := filepath.Base(rel)
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	return strings.Contains("/"+rel, "/__tests__/")
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
