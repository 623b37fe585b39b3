// Package duplicates accumulates flagged literal values across a whole run
// and reports the ones that occur more than once.
package duplicates

import (
	"math"
	"sort"
	"sync"

	"github.com/openkraft/layerlint/internal/domain"
)

type key struct {
	kind  domain.HardcodedKind
	value string
}

type entry struct {
	seq         int
	occurrences []domain.Occurrence
}

// Index maps (kind, value) to the ordered places the value was seen. It is
// safe for concurrent use. Workers may also fill private indexes and Merge
// them at the end of a run.
type Index struct {
	mu      sync.RWMutex
	entries map[key]*entry
	next    int
}

// New returns an empty Index.
func New() *Index {
	return &Index{entries: make(map[key]*entry)}
}

// Track records one occurrence. Recording the same file, line and column
// twice for the same value is a no-op.
func (x *Index) Track(kind domain.HardcodedKind, value, file string, line, column int, context string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.track(key{kind, value}, domain.Occurrence{File: file, Line: line, Column: column, Context: context})
}

func (x *Index) track(k key, occ domain.Occurrence) {
	e, ok := x.entries[k]
	if !ok {
		e = &entry{seq: x.next}
		x.next++
		x.entries[k] = e
	}
	for _, o := range e.occurrences {
		if o.File == occ.File && o.Line == occ.Line && o.Column == occ.Column {
			return
		}
	}
	e.occurrences = append(e.occurrences, occ)
}

// TrackAll records every value of a file. Secrets and credential strings are
// never indexed since their values are masked.
func (x *Index) TrackAll(values []*domain.HardcodedValue) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, v := range values {
		if v.ValueKind == domain.HardcodedSecret || v.IsCredential() {
			continue
		}
		x.track(key{v.ValueKind, v.Value}, domain.Occurrence{File: v.File, Line: v.Line, Column: v.Column, Context: v.Context})
	}
}

// Merge appends every occurrence of other, in other's insertion order.
func (x *Index) Merge(other *Index) {
	if other == nil || other == x {
		return
	}
	other.mu.RLock()
	keys := other.orderedKeys()
	occs := make([][]domain.Occurrence, len(keys))
	for i, k := range keys {
		occs[i] = append([]domain.Occurrence(nil), other.entries[k].occurrences...)
	}
	other.mu.RUnlock()

	x.mu.Lock()
	defer x.mu.Unlock()
	for i, k := range keys {
		for _, o := range occs[i] {
			x.track(k, o)
		}
	}
}

// Duplicates returns every entry with two or more occurrences, most
// frequent first. Ties keep first-tracked order.
func (x *Index) Duplicates() []domain.DuplicateEntry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var out []domain.DuplicateEntry
	for _, k := range x.orderedKeys() {
		e := x.entries[k]
		if len(e.occurrences) < 2 {
			continue
		}
		out = append(out, domain.DuplicateEntry{
			Kind:        k.kind,
			Value:       k.value,
			Occurrences: append([]domain.Occurrence(nil), e.occurrences...),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count() > out[j].Count()
	})
	return out
}

// OccurrencesOf returns the occurrences of a value in insertion order, or
// nil when it was never tracked.
func (x *Index) OccurrencesOf(kind domain.HardcodedKind, value string) []domain.Occurrence {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.entries[key{kind, value}]
	if !ok {
		return nil
	}
	return append([]domain.Occurrence(nil), e.occurrences...)
}

// IsDuplicate reports whether a value has been seen at least twice.
func (x *Index) IsDuplicate(kind domain.HardcodedKind, value string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.entries[key{kind, value}]
	return ok && len(e.occurrences) >= 2
}

// Count returns how many times a value has been seen.
func (x *Index) Count(kind domain.HardcodedKind, value string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if e, ok := x.entries[key{kind, value}]; ok {
		return len(e.occurrences)
	}
	return 0
}

// Stats summarizes the index. Total counts distinct values.
func (x *Index) Stats() domain.DuplicateStats {
	x.mu.RLock()
	defer x.mu.RUnlock()
	s := domain.DuplicateStats{Total: len(x.entries)}
	for _, e := range x.entries {
		if len(e.occurrences) >= 2 {
			s.DuplicateCount++
		}
	}
	if s.Total > 0 {
		pct := float64(s.DuplicateCount) / float64(s.Total) * 100
		s.DuplicatePercentage = math.Round(pct*100) / 100
	}
	return s
}

// Summary returns the stats together with the duplicate entries.
func (x *Index) Summary() domain.DuplicateSummary {
	return domain.DuplicateSummary{Stats: x.Stats(), Entries: x.Duplicates()}
}

// Clear empties the index for a new run.
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = make(map[key]*entry)
	x.next = 0
}

// orderedKeys returns keys in first-tracked order. Callers hold the lock.
func (x *Index) orderedKeys() []key {
	keys := make([]key, 0, len(x.entries))
	for k := range x.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return x.entries[keys[i]].seq < x.entries[keys[j]].seq
	})
	return keys
}
