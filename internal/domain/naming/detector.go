// Package naming checks that file names follow the conventions of the folder
// and layer they live in.
package naming

import (
	"fmt"
	"path"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/filerole"
)

// rule is one folder convention. Rules are tried in order and the first
// whose folder and layer match decides.
type rule struct {
	folders  []string
	layers   []domain.Layer // empty means any layer
	severity string
	// check returns ok and, when not ok, the expected form.
	check func(name string) (bool, string)
}

var rules = []rule{
	{
		folders:  []string{"repositories"},
		layers:   []domain.Layer{domain.LayerDomain},
		severity: domain.SeverityWarning,
		check: func(name string) (bool, string) {
			if filerole.IsRepositoryInterfaceName(name) {
				return true, ""
			}
			if !filerole.IsPascalCase(name) {
				return suffix("Repository", "UserRepository")(name)
			}
			return false, "I<Aggregate>Repository, e.g. IUserRepository"
		},
	},
	{
		folders:  []string{"repositories", "persistence"},
		layers:   []domain.Layer{domain.LayerInfrastructure},
		severity: domain.SeverityWarning,
		check:    suffix("Repository", "PrismaUserRepository"),
	},
	{
		folders:  []string{"use-cases", "usecases", "use_cases", "usecase", "use-case"},
		layers:   []domain.Layer{domain.LayerApplication},
		severity: domain.SeverityWarning,
		check: func(name string) (bool, string) {
			if !filerole.IsPascalCase(name) {
				// kebab-case projects name use cases differently.
				return true, ""
			}
			if filerole.IsVerbNoun(strings.TrimSuffix(name, "UseCase")) {
				return true, ""
			}
			return false, "<Verb><Noun>, e.g. CreateUser or PlaceOrderUseCase"
		},
	},
	{
		folders:  []string{"controllers"},
		severity: domain.SeverityWarning,
		check:    suffix("Controller", "UserController"),
	},
	{
		folders:  []string{"services"},
		severity: domain.SeverityWarning,
		check:    suffix("Service", "PricingService"),
	},
	{
		folders:  []string{"events"},
		layers:   []domain.Layer{domain.LayerDomain},
		severity: domain.SeverityInfo,
		check:    suffix("Event", "OrderPlacedEvent"),
	},
	{
		folders:  []string{"value-objects", "valueobjects"},
		layers:   []domain.Layer{domain.LayerDomain},
		severity: domain.SeverityInfo,
		check: func(name string) (bool, string) {
			if filerole.IsPascalCase(name) || isKebab(name) {
				return true, ""
			}
			return false, "PascalCase, e.g. EmailAddress"
		},
	},
}

// suffix accepts PascalCase names ending in want and dotted or kebab names
// whose last word is want, case-insensitively (user.repository).
func suffix(want, example string) func(string) (bool, string) {
	return func(name string) (bool, string) {
		if filerole.IsPascalCase(name) {
			if strings.HasSuffix(name, want) && name != want {
				return true, ""
			}
			return false, fmt.Sprintf("<Name>%s, e.g. %s", want, example)
		}
		words := strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '-' || r == '_' })
		if len(words) > 1 && strings.EqualFold(words[len(words)-1], want) {
			return true, ""
		}
		return false, fmt.Sprintf("<name>.%s, e.g. %s", strings.ToLower(want), kebabExample(example, want))
	}
}

func kebabExample(example, want string) string {
	words := filerole.Words(strings.TrimSuffix(example, want))
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "-") + "." + strings.ToLower(want)
}

func isKebab(name string) bool {
	return name == strings.ToLower(name) && !strings.ContainsAny(name, " _")
}

// skipped names never carry a role: barrels, tests and declarations.
func skipped(file string) bool {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))
	name := filerole.BaseName(file)
	return name == "index" || name == "types" ||
		strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") ||
		strings.HasSuffix(base, ".d.ts")
}

// Detector checks one file name per unit.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect returns at most one violation: the first folder convention that
// applies to the file and that its name breaks.
func (d *Detector) Detect(unit *domain.SourceUnit) []*domain.NamingConvention {
	if skipped(unit.Path) {
		return nil
	}
	name := filerole.BaseName(unit.Path)
	for _, r := range rules {
		folder, ok := matchFolder(unit.Path, r.folders)
		if !ok || !layerMatches(unit.Layer, r.layers) {
			continue
		}
		if good, expected := r.check(name); !good {
			return []*domain.NamingConvention{{
				Finding: domain.Finding{
					Type:       domain.KindNamingConvention,
					Severity:   r.severity,
					File:       unit.Path,
					Line:       1,
					Message:    fmt.Sprintf("%s in %s/ does not follow the %s naming convention", name, folder, folder),
					Suggestion: fmt.Sprintf("Rename the file to %s", expected),
				},
				FileName: name,
				Expected: expected,
				Folder:   folder,
			}}
		}
		return nil
	}
	return nil
}

func matchFolder(p string, folders []string) (string, bool) {
	for _, f := range folders {
		if filerole.HasFolder(p, f) {
			return f, true
		}
	}
	return "", false
}

func layerMatches(l domain.Layer, layers []domain.Layer) bool {
	if len(layers) == 0 {
		return true
	}
	for _, x := range layers {
		if x == l {
			return true
		}
	}
	return false
}
