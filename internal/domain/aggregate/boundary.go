package aggregate

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/imports"
)

// Detector flags domain files that import another aggregate's entity
// directly instead of referring to it by identity.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect applies to Domain files that belong to an aggregate. Only relative
// imports are considered.
func (d *Detector) Detect(unit *domain.SourceUnit) []*domain.AggregateBoundary {
	if unit.Layer != domain.LayerDomain {
		return nil
	}
	current := OfPath(unit.Path)
	if current == "" {
		return nil
	}
	var out []*domain.AggregateBoundary
	for i, line := range strings.Split(unit.Text, "\n") {
		if imports.IsComment(line) {
			continue
		}
		for _, imp := range imports.Find(line) {
			if v := check(unit.Path, current, i+1, imp); v != nil {
				out = append(out, v)
			}
		}
	}
	return out
}

func check(file, current string, line int, imp imports.Import) *domain.AggregateBoundary {
	if !imports.IsRelative(imp.Path) {
		return nil
	}
	for _, seg := range segments(imp.Path) {
		if AllowedFolders[strings.ToLower(seg)] {
			return nil
		}
	}
	target := targetAggregate(file, imp.Path)
	if target == "" || target == current {
		return nil
	}
	entity := EntityOfImport(imp.Path)
	if !looksLikeEntity(entity) {
		return nil
	}
	return &domain.AggregateBoundary{
		Finding: domain.Finding{
			Type:       domain.KindAggregateBoundary,
			Severity:   domain.SeverityWarning,
			File:       file,
			Line:       line,
			Column:     imp.Column,
			Message:    fmt.Sprintf("Aggregate %q imports entity %s from aggregate %q", current, entity, target),
			Suggestion: fmt.Sprintf("Reference the %s aggregate by identity (for example %sId) and load it through its repository", target, entity),
			ExampleFix: fmt.Sprintf("import { %sId } from '../%s/value-objects/%sId';", entity, target, entity),
		},
		SourceAggregate: current,
		TargetAggregate: target,
		EntityName:      entity,
		ImportPath:      imp.Path,
	}
}

// targetAggregate resolves the import against the importing file first and
// falls back to reading the specifier alone.
func targetAggregate(file, spec string) string {
	joined := path.Join(path.Dir(strings.ReplaceAll(file, `\`, "/")), spec)
	if name := OfPath(joined); name != "" {
		return name
	}
	return OfImport(spec)
}

// looksLikeEntity is a coarse filter: the lower-cased file name must start
// with two letters. It cannot tell an entity from an identifier type, so the
// allowed-folder check above does most of the work.
func looksLikeEntity(name string) bool {
	r := []rune(strings.ToLower(name))
	return len(r) >= 2 && unicode.IsLower(r[0]) && unicode.IsLower(r[1])
}
