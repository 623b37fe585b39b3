package hardcoded

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/literal"
)

// checkNumber flags a numeric literal that is not allow-listed and sits in a
// timer-like call, a configuration-named binding, or (when >= 100) a
// statement that talks about configuration.
func (d *Detector) checkNumber(unit *domain.SourceUnit, n domain.SyntaxNode) *domain.HardcodedValue {
	value, ok := parseNumber(n.Text())
	if !ok {
		return nil
	}
	target, raw := n, n.Text()
	if neg := negation(n); neg != nil {
		target, raw, value = neg, "-"+raw, -value
	}
	if d.tables.AllowedNumbers[value] || isIndex(target) {
		return nil
	}
	if d.context.IsExportedConstant(target) || d.context.IsTypeContext(target) || d.context.IsLoggingCall(target) {
		return nil
	}

	name := d.context.EnclosingName(target)
	callee := literal.CalleeName(target)
	stmt := words(d.context.SurroundingStatement(target).Text())
	switch {
	case d.tables.TimerCalls[callee]:
	case d.context.ContainsConfigKeyword(name):
	case value >= 100 && mentions(stmt, d.tables.ConfigTerms):
	default:
		return nil
	}

	ctxWords := append(append(stmt, words(name)...), words(callee)...)
	v := d.newValue(unit, target, domain.HardcodedNumber, raw, importanceOf(ctxWords, domain.ValueNone))
	label := name
	if label == "" {
		label = callee
	}
	if label != "" {
		v.Message = fmt.Sprintf("Magic number %s used for %s", raw, label)
	} else {
		v.Message = fmt.Sprintf("Magic number %s", raw)
	}
	constName := numberConstantName(name, callee)
	v.Suggestion = fmt.Sprintf("Extract %s into a named constant such as %s or read it from configuration", raw, constName)
	v.ExampleFix = fmt.Sprintf("const %s = %s;", constName, raw)
	return v
}

// checkString flags a string literal that is long enough, not in an excluded
// context, and either recognisable by its shape or used in a statement about
// configuration, credentials or user-facing text.
func (d *Detector) checkString(unit *domain.SourceUnit, n domain.SyntaxNode) *domain.HardcodedValue {
	if hasSubstitution(n) {
		return nil
	}
	payload := literal.StringPayload(n)
	if len(payload) <= d.tables.MinStringLength || d.tables.IgnoreValues[payload] {
		return nil
	}
	if d.structuralString(n) || d.excluded(n) {
		return nil
	}

	class := d.values.Classify(payload)
	stmt := d.context.SurroundingStatement(n).Text()
	ws := words(strings.Replace(stmt, n.Text(), "", 1))
	if !class.Recognized() && !mentions(ws, d.tables.DomainTerms) {
		return nil
	}

	v := d.newValue(unit, n, domain.HardcodedString, payload, importanceOf(ws, class))
	v.Classification = class
	name := d.context.EnclosingName(n)
	constName := constantName(name, class)
	if class.Recognized() {
		v.Message = fmt.Sprintf("Hardcoded %s %q", class, snippet(payload, 60))
	} else {
		v.Message = fmt.Sprintf("Hardcoded string %q", snippet(payload, 60))
	}
	v.Suggestion = stringSuggestion(class, constName)
	if v.IsCredential() {
		v.Message = fmt.Sprintf("Hardcoded %s %q", class, mask(payload))
		v.Context = snippet(strings.ReplaceAll(stmt, payload, mask(payload)), 80)
		v.ExampleFix = fmt.Sprintf("const %s = process.env.%s;", constName, constName)
	} else {
		v.ExampleFix = fmt.Sprintf("const %s = %s;", constName, n.Text())
	}
	return v
}

// checkBooleans flags a call passing two or more boolean literals. The call
// is reported once, at its first boolean argument.
func (d *Detector) checkBooleans(unit *domain.SourceUnit, args domain.SyntaxNode) *domain.HardcodedValue {
	var flags []domain.SyntaxNode
	for _, a := range domain.NamedChildren(args) {
		if a.Type() == "true" || a.Type() == "false" {
			flags = append(flags, a)
		}
	}
	if len(flags) < 2 || d.context.IsLoggingCall(flags[0]) {
		return nil
	}
	texts := make([]string, len(flags))
	for i, f := range flags {
		texts[i] = f.Text()
	}
	callee := literal.CalleeName(flags[0])
	if callee == "" {
		callee = "call"
	}
	v := d.newValue(unit, flags[0], domain.HardcodedBoolean, strings.Join(texts, ", "), domain.ImportanceLow)
	v.Message = fmt.Sprintf("%s receives %d boolean flags", callee, len(flags))
	v.Suggestion = "Replace positional boolean flags with an options object or named constants"
	v.ExampleFix = fmt.Sprintf("%s({ /* name each flag */ })", callee)
	return v
}

// checkObject flags an object literal with at least two configuration-like
// members: numbers that would be magic on their own, or strings longer than
// the minimum length.
func (d *Detector) checkObject(unit *domain.SourceUnit, n domain.SyntaxNode) *domain.HardcodedValue {
	if d.context.IsExportedConstant(n) || d.context.IsTypeContext(n) || d.context.IsLoggingCall(n) {
		return nil
	}
	count := 0
	var keys []string
	for _, m := range domain.NamedChildren(n) {
		if m.Type() != "pair" {
			continue
		}
		if d.configMember(m) {
			count++
			keys = append(keys, literal.PropertyName(m))
		}
	}
	if count < 2 {
		return nil
	}
	ws := words(strings.Join(keys, " "))
	v := d.newValue(unit, n, domain.HardcodedConfigObject, snippet(n.Text(), 60), importanceOf(ws, domain.ValueNone))
	v.MemberCount = count
	name := d.context.EnclosingName(n)
	if name == "" {
		name = literal.CalleeName(n)
	}
	if name != "" {
		v.Message = fmt.Sprintf("Inline configuration object for %s with %d hardcoded members", name, count)
	} else {
		v.Message = fmt.Sprintf("Inline configuration object with %d hardcoded members", count)
	}
	v.Suggestion = "Move the settings to a typed configuration module and inject it"
	v.ExampleFix = fmt.Sprintf("const %s = loadConfig().%s;", constantName(name+"Config", domain.ValueNone), lowerFirst(name+"Config"))
	return v
}

func (d *Detector) configMember(pair domain.SyntaxNode) bool {
	val := pair.ChildByField("value")
	if val == nil {
		return false
	}
	if val.Type() == "unary_expression" {
		if arg := val.ChildByField("argument"); arg != nil && arg.Type() == "number" {
			val = arg
		}
	}
	switch val.Type() {
	case "number":
		num, ok := parseNumber(val.Text())
		if !ok {
			return false
		}
		if neg := negation(val); neg != nil {
			num = -num
		}
		if d.tables.AllowedNumbers[num] {
			return false
		}
		return num >= 100 || d.context.ContainsConfigKeyword(literal.PropertyName(pair))
	case "string", "template_string":
		return !hasSubstitution(val) && len(literal.StringPayload(val)) > d.tables.MinStringLength
	}
	return false
}

// excluded applies the literal context rules that exempt a string.
func (d *Detector) excluded(n domain.SyntaxNode) bool {
	c := d.context
	return c.IsExportedConstant(n) ||
		c.IsTypeContext(n) ||
		c.IsImportStatement(n) ||
		c.IsTestDescription(n) ||
		c.IsLoggingCall(n) ||
		c.IsSymbolConstruction(n) ||
		c.IsRuntimeTypeCheck(n)
}

// structuralString reports strings that name things rather than carry
// values: object keys, computed member lookups and directives.
func (d *Detector) structuralString(n domain.SyntaxNode) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	switch p.Type() {
	case "pair":
		key := p.ChildByField("key")
		return key != nil && key.StartPosition() == n.StartPosition()
	case "subscript_expression":
		return true
	case "expression_statement":
		return true
	}
	return false
}

// parseNumber reads a JavaScript numeric literal: decimal, exponent, hex,
// octal or binary, with optional separators and bigint suffix.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	s = strings.TrimSuffix(s, "n")
	if len(s) > 1 && s[0] == '0' && strings.ContainsAny(s[1:2], "xXoObB") {
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// negation returns the enclosing unary minus expression of a number.
func negation(n domain.SyntaxNode) domain.SyntaxNode {
	p := n.Parent()
	if p == nil || p.Type() != "unary_expression" {
		return nil
	}
	op := p.ChildByField("operator")
	if op == nil {
		op = p.Child(0)
	}
	if op == nil || op.Type() != "-" {
		return nil
	}
	return p
}

func isIndex(n domain.SyntaxNode) bool {
	p := n.Parent()
	if p == nil || p.Type() != "subscript_expression" {
		return false
	}
	idx := p.ChildByField("index")
	return idx != nil && idx.StartPosition() == n.StartPosition()
}

func hasSubstitution(n domain.SyntaxNode) bool {
	if n.Type() != "template_string" {
		return false
	}
	for _, c := range domain.NamedChildren(n) {
		if c.Type() == "template_substitution" {
			return true
		}
	}
	return false
}
