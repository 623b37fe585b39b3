package domain

import "sort"

// ViolationKind names one case of the Violation union.
type ViolationKind string

const (
	KindHardcodedValue      ViolationKind = "hardcoded-value"
	KindDependencyDirection ViolationKind = "dependency-direction"
	KindAggregateBoundary   ViolationKind = "aggregate-boundary"
	KindFrameworkLeak       ViolationKind = "framework-leak"
	KindRepositoryPattern   ViolationKind = "repository-pattern"
	KindNamingConvention    ViolationKind = "naming-convention"
)

// ValidViolationKinds enumerates every violation kind.
var ValidViolationKinds = []ViolationKind{
	KindHardcodedValue,
	KindDependencyDirection,
	KindAggregateBoundary,
	KindFrameworkLeak,
	KindRepositoryPattern,
	KindNamingConvention,
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// SeverityRank orders severities; unknown severities rank lowest.
func SeverityRank(s string) int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Finding holds the fields every violation carries.
type Finding struct {
	Type       ViolationKind `json:"type"`
	Severity   string        `json:"severity"`
	File       string        `json:"file"`
	Line       int           `json:"line"`
	Column     int           `json:"column,omitempty"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion"`
	ExampleFix string        `json:"example_fix,omitempty"`
}

// Violation is a located rule breach. The set of implementations is closed.
type Violation interface {
	Common() *Finding
	violation()
}

func (f *Finding) Common() *Finding { return f }
func (f *Finding) violation()       {}

// HardcodedKind distinguishes the literal rules of the hardcoded detector.
type HardcodedKind string

const (
	HardcodedNumber       HardcodedKind = "magic-number"
	HardcodedString       HardcodedKind = "magic-string"
	HardcodedBoolean      HardcodedKind = "magic-boolean"
	HardcodedConfigObject HardcodedKind = "config-object"
	HardcodedSecret       HardcodedKind = "secret"
)

// Importance ranks how much a hardcoded literal matters.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

type HardcodedValue struct {
	Finding
	ValueKind      HardcodedKind `json:"value_kind"`
	Value          string        `json:"value"`
	Context        string        `json:"context,omitempty"`
	Classification ValueType     `json:"classification,omitempty"`
	Importance     Importance    `json:"importance"`
	MemberCount    int           `json:"member_count,omitempty"`
	SameFileCount  int           `json:"same_file_count"`
	CorpusCount    int           `json:"corpus_count,omitempty"`
}

// AlmostConstant reports whether the literal repeats within its own file.
func (h *HardcodedValue) AlmostConstant() bool { return h.SameFileCount >= 2 }

// IsCredential reports whether the literal is a string recognised as an API
// key or a JWT.
func (h *HardcodedValue) IsCredential() bool {
	return h.ValueKind == HardcodedString && (h.Classification == ValueAPIKey || h.Classification == ValueJWT)
}

type DependencyDirection struct {
	Finding
	FromLayer  Layer  `json:"from_layer"`
	ToLayer    Layer  `json:"to_layer"`
	ImportPath string `json:"import_path"`
}

type AggregateBoundary struct {
	Finding
	SourceAggregate string `json:"source_aggregate"`
	TargetAggregate string `json:"target_aggregate"`
	EntityName      string `json:"entity_name"`
	ImportPath      string `json:"import_path"`
}

// FrameworkCategory groups framework packages that must stay out of the core.
type FrameworkCategory string

const (
	FrameworkORM        FrameworkCategory = "orm"
	FrameworkWeb        FrameworkCategory = "web-framework"
	FrameworkHTTPClient FrameworkCategory = "http-client"
	FrameworkMessaging  FrameworkCategory = "messaging"
	FrameworkCloud      FrameworkCategory = "cloud-sdk"
	FrameworkLogger     FrameworkCategory = "logger"
	FrameworkValidation FrameworkCategory = "validation"
)

type FrameworkLeak struct {
	Finding
	PackageName string            `json:"package_name"`
	Category    FrameworkCategory `json:"category"`
	Layer       Layer             `json:"layer"`
}

// RepositoryRule names the repository-pattern rule that fired.
type RepositoryRule string

const (
	RuleORMTypeInInterface     RepositoryRule = "orm-type-in-interface"
	RuleNonDomainMethodName    RepositoryRule = "non-domain-method-name"
	RuleConcreteRepositoryDep  RepositoryRule = "concrete-repository-dependency"
	RuleRepositoryInstantiated RepositoryRule = "repository-instantiation"
)

type RepositoryPattern struct {
	Finding
	Rule           RepositoryRule `json:"rule"`
	ORMType        string         `json:"orm_type,omitempty"`
	RepositoryName string         `json:"repository_name,omitempty"`
	MethodName     string         `json:"method_name,omitempty"`
}

type NamingConvention struct {
	Finding
	FileName string `json:"file_name"`
	Expected string `json:"expected"`
	Folder   string `json:"folder"`
}

// SortViolations orders violations by file, line, column and kind. The sort
// is stable so detector emission order breaks remaining ties.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i].Common(), vs[j].Common()
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Type < b.Type
	})
}

// CountByKind tallies violations per kind.
func CountByKind(vs []Violation) map[ViolationKind]int {
	out := make(map[ViolationKind]int)
	for _, v := range vs {
		out[v.Common().Type]++
	}
	return out
}

// CountBySeverity tallies violations per severity.
func CountBySeverity(vs []Violation) (errors, warnings, infos int) {
	for _, v := range vs {
		switch v.Common().Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}
