// Package aggregate derives aggregate names from DDD folder layouts and
// flags domain code that reaches into another aggregate's entities.
package aggregate

import (
	"path"
	"strings"
)

// structuralFolders group aggregates without naming one.
var structuralFolders = map[string]bool{
	"aggregates": true,
	"entities":   true,
}

// notAggregates are domain folders that hold cross-cutting building blocks.
var notAggregates = map[string]bool{
	"value-objects":  true,
	"valueobjects":   true,
	"events":         true,
	"repositories":   true,
	"services":       true,
	"specifications": true,
	"constants":      true,
	"shared":         true,
	"factories":      true,
	"ports":          true,
	"interfaces":     true,
	"errors":         true,
	"exceptions":     true,
	"types":          true,
}

// AllowedFolders may be imported across aggregates: they hold identities,
// events and contracts rather than entities.
var AllowedFolders = map[string]bool{
	"value-objects":  true,
	"valueobjects":   true,
	"events":         true,
	"repositories":   true,
	"services":       true,
	"specifications": true,
	"errors":         true,
}

func segments(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// afterAnchor returns the aggregate named right after segs[i], descending
// once through a structural folder. The last segment is a file name and is
// never an aggregate.
func afterAnchor(segs []string, i int) string {
	next := i + 1
	if next < len(segs)-1 && structuralFolders[segs[next]] {
		next++
	}
	if next >= len(segs)-1 {
		return ""
	}
	name := segs[next]
	if notAggregates[strings.ToLower(name)] || structuralFolders[name] {
		return ""
	}
	return name
}

// OfPath returns the aggregate a file belongs to: the folder following the
// domain root (or following domain/aggregates or domain/entities). It
// returns "" for files outside an aggregate.
func OfPath(filePath string) string {
	segs := segments(filePath)
	for i, s := range segs {
		if s == "domain" {
			return afterAnchor(segs, i)
		}
	}
	return ""
}

// OfImport returns the aggregate an import specifier points into, using an
// aggregates/ or domain/ anchor when present and otherwise the
// second-to-last segment.
func OfImport(spec string) string {
	segs := segments(spec)
	for i, s := range segs {
		if s == "aggregates" || s == "domain" {
			return afterAnchor(segs, i)
		}
	}
	if len(segs) < 2 {
		return ""
	}
	name := segs[len(segs)-2]
	if name == "." || name == ".." || structuralFolders[name] || notAggregates[strings.ToLower(name)] {
		return ""
	}
	return name
}

// EntityOfImport returns the last segment of spec without its extension.
func EntityOfImport(spec string) string {
	segs := segments(spec)
	if len(segs) == 0 {
		return ""
	}
	last := segs[len(segs)-1]
	return strings.TrimSuffix(last, path.Ext(last))
}
