package domain

// ResultCache holds per-file results from a previous run.
type ResultCache struct {
	ProjectPath string                `json:"project_path"`
	ConfigHash  string                `json:"config_hash"`
	Files       map[string]CachedFile `json:"files"`
}

// CachedFile is the stored analysis of one file at a given content hash.
type CachedFile struct {
	ContentHash string            `json:"content_hash"`
	Layer       Layer             `json:"layer"`
	Violations  []ViolationRecord `json:"violations"`
	Suppressed  int               `json:"suppressed,omitempty"`
}

// IsInvalidated reports whether the cache was produced under another config.
func (c *ResultCache) IsInvalidated(configHash string) bool {
	return c == nil || c.ConfigHash != configHash
}

// Lookup returns the cached file if its content hash still matches.
func (c *ResultCache) Lookup(path, contentHash string) (CachedFile, bool) {
	if c == nil {
		return CachedFile{}, false
	}
	f, ok := c.Files[path]
	if !ok || f.ContentHash != contentHash {
		return CachedFile{}, false
	}
	return f, true
}

// ViolationRecord is the serializable form of a Violation; exactly one field
// is set.
type ViolationRecord struct {
	Hardcoded  *HardcodedValue      `json:"hardcoded,omitempty"`
	Dependency *DependencyDirection `json:"dependency,omitempty"`
	Aggregate  *AggregateBoundary   `json:"aggregate,omitempty"`
	Framework  *FrameworkLeak       `json:"framework,omitempty"`
	Repository *RepositoryPattern   `json:"repository,omitempty"`
	Naming     *NamingConvention    `json:"naming,omitempty"`
}

// RecordOf wraps v for storage.
func RecordOf(v Violation) ViolationRecord {
	switch t := v.(type) {
	case *HardcodedValue:
		return ViolationRecord{Hardcoded: t}
	case *DependencyDirection:
		return ViolationRecord{Dependency: t}
	case *AggregateBoundary:
		return ViolationRecord{Aggregate: t}
	case *FrameworkLeak:
		return ViolationRecord{Framework: t}
	case *RepositoryPattern:
		return ViolationRecord{Repository: t}
	case *NamingConvention:
		return ViolationRecord{Naming: t}
	default:
		return ViolationRecord{}
	}
}

// Violation unwraps the record; nil if the record is empty.
func (r ViolationRecord) Violation() Violation {
	switch {
	case r.Hardcoded != nil:
		return r.Hardcoded
	case r.Dependency != nil:
		return r.Dependency
	case r.Aggregate != nil:
		return r.Aggregate
	case r.Framework != nil:
		return r.Framework
	case r.Repository != nil:
		return r.Repository
	case r.Naming != nil:
		return r.Naming
	default:
		return nil
	}
}

// RecordsOf converts a slice of violations for storage.
func RecordsOf(vs []Violation) []ViolationRecord {
	out := make([]ViolationRecord, 0, len(vs))
	for _, v := range vs {
		out = append(out, RecordOf(v))
	}
	return out
}

// ViolationsOf converts stored records back, dropping empty records.
func ViolationsOf(rs []ViolationRecord) []Violation {
	out := make([]Violation, 0, len(rs))
	for _, r := range rs {
		if v := r.Violation(); v != nil {
			out = append(out, v)
		}
	}
	return out
}
