// Package hardcoded finds literal values that should be named constants or
// configuration: magic numbers, recognisable strings, boolean flag arguments
// and inline configuration objects.
package hardcoded

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/literal"
	"github.com/openkraft/layerlint/internal/domain/pattern"
)

// Result is the outcome of scanning one file.
type Result struct {
	Values []*domain.HardcodedValue
	// Suppressed counts literals dropped by the layer policy.
	Suppressed int
}

// Detector walks a syntax tree once and applies the literal rules. It holds
// no per-file state and is safe for concurrent use.
type Detector struct {
	tables  Tables
	context *literal.Classifier
	values  *pattern.Classifier
}

// New creates a Detector from its tables and classifiers.
func New(tables Tables, context *literal.Classifier, values *pattern.Classifier) *Detector {
	return &Detector{tables: tables, context: context, values: values}
}

// Default returns a Detector with the built-in tables.
func Default() *Detector {
	return New(DefaultTables(), literal.Default(), pattern.Default())
}

// Detect returns the hardcoded values of unit in source order. A unit without
// a parse tree yields nothing.
func (d *Detector) Detect(unit *domain.SourceUnit) Result {
	var res Result
	root := unit.Root()
	if root == nil {
		return res
	}
	domain.Walk(root, func(n domain.SyntaxNode) bool {
		var v *domain.HardcodedValue
		switch n.Type() {
		case "import_statement":
			return false
		case "number":
			v = d.checkNumber(unit, n)
		case "string", "template_string":
			v = d.checkString(unit, n)
		case "arguments":
			v = d.checkBooleans(unit, n)
		case "object":
			v = d.checkObject(unit, n)
		}
		if v == nil {
			return true
		}
		if Suppressed(unit.Layer, unit.Path, v.Importance) {
			res.Suppressed++
			return true
		}
		res.Values = append(res.Values, v)
		return true
	})
	countSameFile(res.Values)
	for _, v := range res.Values {
		if v.IsCredential() {
			v.Value = mask(v.Value)
		}
	}
	return res
}

// DropCovered removes credential strings that a secret finding on the same
// line and overlapping columns already reports.
func DropCovered(values, secrets []*domain.HardcodedValue) []*domain.HardcodedValue {
	out := make([]*domain.HardcodedValue, 0, len(values))
	for _, v := range values {
		if v.IsCredential() && covered(v, secrets) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// covered compares spans in runes. A string literal spans its quotes.
func covered(v *domain.HardcodedValue, secrets []*domain.HardcodedValue) bool {
	start := v.Column
	end := start + utf8.RuneCountInString(v.Value) + 2
	for _, s := range secrets {
		if s.Line != v.Line {
			continue
		}
		if s.Column < end && start < s.Column+utf8.RuneCountInString(s.Value) {
			return true
		}
	}
	return false
}

// FromSecrets converts secret scanner findings into critical hardcoded
// values.
func FromSecrets(path string, findings []domain.SecretFinding) []*domain.HardcodedValue {
	out := make([]*domain.HardcodedValue, 0, len(findings))
	for _, f := range findings {
		name := constantName(f.SecretType, domain.ValueAPIKey)
		out = append(out, &domain.HardcodedValue{
			Finding: domain.Finding{
				Type:       domain.KindHardcodedValue,
				Severity:   domain.SeverityError,
				File:       path,
				Line:       f.Line,
				Column:     f.Column,
				Message:    fmt.Sprintf("Possible %s committed to source", f.SecretType),
				Suggestion: "Remove the credential, rotate it and load it from the environment or a secret manager",
				ExampleFix: fmt.Sprintf("const %s = process.env.%s;", name, name),
			},
			ValueKind:  domain.HardcodedSecret,
			Value:      mask(f.MatchedText),
			Importance: domain.ImportanceCritical,
		})
	}
	countSameFile(out)
	return out
}

func (d *Detector) newValue(unit *domain.SourceUnit, n domain.SyntaxNode, kind domain.HardcodedKind, value string, imp domain.Importance) *domain.HardcodedValue {
	return &domain.HardcodedValue{
		Finding: domain.Finding{
			Type:     domain.KindHardcodedValue,
			Severity: severityOf(imp),
			File:     unit.Path,
			Line:     domain.Line(n),
			Column:   domain.Column(n),
		},
		ValueKind:  kind,
		Value:      value,
		Context:    snippet(d.context.SurroundingStatement(n).Text(), 80),
		Importance: imp,
	}
}

// countSameFile sets SameFileCount on every value to the number of values in
// the slice sharing its kind and text.
func countSameFile(vs []*domain.HardcodedValue) {
	type key struct {
		kind  domain.HardcodedKind
		value string
	}
	counts := make(map[key]int, len(vs))
	for _, v := range vs {
		counts[key{v.ValueKind, v.Value}]++
	}
	for _, v := range vs {
		v.SameFileCount = counts[key{v.ValueKind, v.Value}]
	}
}

// snippet collapses whitespace and truncates s to max runes.
func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func mask(s string) string {
	r := []rune(s)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-4)
}
