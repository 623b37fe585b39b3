package domain

import "time"

// Report is the result of analyzing a whole project.
type Report struct {
	RunID         string           `json:"run_id"`
	ProjectPath   string           `json:"project_path"`
	CommitHash    string           `json:"commit_hash,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	FilesAnalyzed int              `json:"files_analyzed"`
	FromCache     int              `json:"from_cache,omitempty"`
	Files         []FileReport     `json:"files"`
	Errors        []FileError      `json:"errors,omitempty"`
	Duplicates    DuplicateSummary `json:"duplicates"`
	Summary       Summary          `json:"summary"`
	// Incomplete is set when the run was cancelled before every file was
	// scheduled.
	Incomplete bool `json:"incomplete,omitempty"`
}

// FileReport lists the violations found in one file, in emission order.
type FileReport struct {
	Path       string      `json:"path"`
	Layer      Layer       `json:"layer"`
	Violations []Violation `json:"violations"`
}

// FileError records a per-file failure that did not abort the run.
type FileError struct {
	Path    string `json:"path"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

const (
	StageRead   = "read"
	StageParse  = "parse"
	StageSecret = "secret-scan"
)

// Summary aggregates violation counts across the run.
type Summary struct {
	Total      int                   `json:"total"`
	Errors     int                   `json:"errors"`
	Warnings   int                   `json:"warnings"`
	Infos      int                   `json:"infos"`
	ByKind     map[ViolationKind]int `json:"by_kind"`
	ByLayer    map[string]int        `json:"by_layer"`
	Suppressed int                   `json:"suppressed,omitempty"`
}

// Occurrence is one sighting of a literal value.
type Occurrence struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
	Context string `json:"context,omitempty"`
}

// DuplicateEntry is a literal seen in two or more places.
type DuplicateEntry struct {
	Kind        HardcodedKind `json:"kind"`
	Value       string        `json:"value"`
	Occurrences []Occurrence  `json:"occurrences"`
}

// Count returns the number of occurrences.
func (d DuplicateEntry) Count() int { return len(d.Occurrences) }

// Files returns the distinct files in first-seen order.
func (d DuplicateEntry) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range d.Occurrences {
		if !seen[o.File] {
			seen[o.File] = true
			out = append(out, o.File)
		}
	}
	return out
}

// DuplicateStats summarizes a duplicate index.
type DuplicateStats struct {
	Total               int     `json:"total"`
	DuplicateCount      int     `json:"duplicate_count"`
	DuplicatePercentage float64 `json:"duplicate_percentage"`
}

// DuplicateSummary is the per-run duplicate report.
type DuplicateSummary struct {
	Stats   DuplicateStats   `json:"stats"`
	Entries []DuplicateEntry `json:"entries,omitempty"`
}

// Violations flattens all file reports in file order.
func (r *Report) Violations() []Violation {
	var out []Violation
	for _, f := range r.Files {
		out = append(out, f.Violations...)
	}
	return out
}

// Summarize computes the run summary from the file reports.
func Summarize(files []FileReport) Summary {
	s := Summary{
		ByKind:  make(map[ViolationKind]int),
		ByLayer: make(map[string]int),
	}
	for _, f := range files {
		if len(f.Violations) == 0 {
			continue
		}
		errors, warnings, infos := CountBySeverity(f.Violations)
		s.Errors += errors
		s.Warnings += warnings
		s.Infos += infos
		for kind, n := range CountByKind(f.Violations) {
			s.ByKind[kind] += n
		}
		s.ByLayer[f.Layer.String()] += len(f.Violations)
		s.Total += len(f.Violations)
	}
	return s
}

// ExceedsThreshold reports whether any violation is at or above the
// severity threshold.
func (s Summary) ExceedsThreshold(threshold string) bool {
	switch SeverityRank(threshold) {
	case 3:
		return s.Errors > 0
	case 2:
		return s.Errors+s.Warnings > 0
	case 1:
		return s.Total > 0
	default:
		return false
	}
}

// RunEntry is one line of the run history.
type RunEntry struct {
	RunID      string `json:"run_id"`
	Timestamp  string `json:"timestamp"`
	CommitHash string `json:"commit_hash,omitempty"`
	Files      int    `json:"files"`
	Total      int    `json:"total"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
	Duplicates int    `json:"duplicates"`
}
