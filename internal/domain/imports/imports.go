// Package imports extracts module specifiers from source lines and maps
// import and file paths onto architectural layers.
package imports

import (
	"path"
	"regexp"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
)

// Two independent pattern families. The static family covers named, default,
// namespace, type-only and re-export forms, including the closing line of a
// multi-line import, plus side-effect imports. The dynamic family covers
// require() and import().
var (
	staticFrom   = regexp.MustCompile(`^\s*(?:import|export|\})[^'"]*?\bfrom\s*['"]([^'"]+)['"]`)
	staticBare   = regexp.MustCompile(`^\s*import\s*['"]([^'"]+)['"]`)
	dynamicCalls = regexp.MustCompile(`\b(?:require|import)\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// Import is one module specifier found on a line. Column is 1-based.
type Import struct {
	Path   string
	Column int
}

// ExtractImports returns the specifiers imported by one line of source:
// static forms first, then dynamic ones.
func ExtractImports(line string) []string {
	found := Find(line)
	out := make([]string, len(found))
	for i, imp := range found {
		out[i] = imp.Path
	}
	return out
}

// Find is ExtractImports with positions.
func Find(line string) []Import {
	var out []Import
	for _, re := range []*regexp.Regexp{staticFrom, staticBare} {
		if m := re.FindStringSubmatchIndex(line); m != nil {
			out = append(out, Import{Path: line[m[2]:m[3]], Column: m[2] + 1})
		}
	}
	for _, m := range dynamicCalls.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, Import{Path: line[m[2]:m[3]], Column: m[2] + 1})
	}
	return out
}

// IsComment reports whether a line is a line comment or part of a block
// comment.
func IsComment(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*")
}

// IsRelative reports whether spec is a relative module path.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// segmentLayers maps a path segment to the layer it names.
var segmentLayers = map[string]domain.Layer{
	"domain":         domain.LayerDomain,
	"application":    domain.LayerApplication,
	"infrastructure": domain.LayerInfrastructure,
	"infra":          domain.LayerInfrastructure,
	"adapters":       domain.LayerInfrastructure,
	"shared":         domain.LayerShared,
}

// LayerOf returns the layer named by the first layer segment of p, ignoring
// any number of leading ./ and ../ components and alias prefixes such as @/
// or ~/. It returns false when no segment names a layer.
func LayerOf(p string) (domain.Layer, bool) {
	for _, seg := range strings.Split(trimLeading(strings.ReplaceAll(p, `\`, "/")), "/") {
		if l, ok := segmentLayers[seg]; ok {
			return l, true
		}
	}
	return domain.LayerUnclassified, false
}

func trimLeading(p string) string {
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "../"):
			p = p[3:]
		case strings.HasPrefix(p, "@/"), strings.HasPrefix(p, "~/"):
			p = p[2:]
		default:
			return p
		}
	}
}

// Resolve returns the layer of an import made from fromFile. Relative
// imports are joined onto the importing file's directory first, so a sibling
// import inherits the importer's layer.
func Resolve(fromFile, spec string) (domain.Layer, bool) {
	if IsRelative(spec) {
		dir := path.Dir(strings.ReplaceAll(fromFile, `\`, "/"))
		return LayerOf(path.Join(dir, spec))
	}
	return LayerOf(spec)
}
