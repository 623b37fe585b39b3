// Package literal answers questions about the syntactic role of a literal
// node: whether it sits in an exported constant, a type, an import, a test
// description, a logging call and so on. Every query walks the parent chain
// iteratively and stops at the first construct that decides it.
package literal

import (
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
)

// functionBoundaries end upward searches that must not escape the current
// function body.
var functionBoundaries = map[string]bool{
	"arrow_function":       true,
	"function":             true,
	"function_expression":  true,
	"function_declaration": true,
	"generator_function":   true,
	"method_definition":    true,
	"class_body":           true,
}

var typeContexts = map[string]bool{
	"type_annotation":        true,
	"type_alias_declaration": true,
	"literal_type":           true,
	"union_type":             true,
	"intersection_type":      true,
	"interface_declaration":  true,
	"type_arguments":         true,
	"type_parameters":        true,
	"property_signature":     true,
	"method_signature":       true,
	"index_signature":        true,
	"template_literal_type":  true,
	"lookup_type":            true,
	"conditional_type":       true,
	"ambient_declaration":    true,
	// Enum members are already named constants.
	"enum_declaration": true,
	"enum_body":        true,
}

var statementLevel = map[string]bool{
	"variable_declarator":             true,
	"lexical_declaration":             true,
	"variable_declaration":            true,
	"pair":                            true,
	"call_expression":                 true,
	"new_expression":                  true,
	"return_statement":                true,
	"expression_statement":            true,
	"public_field_definition":         true,
	"field_definition":                true,
	"assignment_expression":           true,
	"augmented_assignment_expression": true,
}

var testFunctions = map[string]bool{
	"describe": true, "it": true, "test": true, "context": true,
	"suite": true, "specify": true, "xit": true, "xdescribe": true,
	"fit": true, "fdescribe": true, "bench": true,
}

var logMethods = map[string]bool{
	"log": true, "info": true, "warn": true, "warning": true, "error": true,
	"debug": true, "trace": true, "fatal": true, "verbose": true, "silly": true,
}

var comparisonOperators = map[string]bool{
	"===": true, "==": true, "!==": true, "!=": true,
}

// DefaultConfigKeywords are the property/declarator name fragments that mark
// configuration-like values.
var DefaultConfigKeywords = []string{
	"timeout", "retry", "retries", "limit", "max", "min",
	"port", "delay", "interval", "threshold", "ttl", "size",
}

// Classifier answers literal-context queries. It is immutable after New and
// safe for concurrent use.
type Classifier struct {
	configKeywords []string
}

// New returns a Classifier using the given configuration keywords
// (matched case-insensitively as substrings of property names).
func New(configKeywords []string) *Classifier {
	kw := make([]string, 0, len(configKeywords))
	for _, k := range configKeywords {
		kw = append(kw, strings.ToLower(k))
	}
	return &Classifier{configKeywords: kw}
}

// Default returns a Classifier with DefaultConfigKeywords.
func Default() *Classifier {
	return New(DefaultConfigKeywords)
}

// IsExportedConstant reports whether n is part of the initializer of an
// exported const binding or a static readonly class field. A mutable export
// (export let) does not count. The search stops at function boundaries so
// literals inside an exported function body are not treated as constants.
func (c *Classifier) IsExportedConstant(n domain.SyntaxNode) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "lexical_declaration":
			if !isConstDeclaration(cur) {
				return false
			}
			p := cur.Parent()
			return p != nil && p.Type() == "export_statement"
		case "variable_declaration":
			return false
		case "public_field_definition", "field_definition":
			return hasModifier(cur, "static") && hasModifier(cur, "readonly")
		}
		if functionBoundaries[cur.Type()] {
			return false
		}
	}
	return false
}

// IsTypeContext reports whether n sits in a type position.
func (c *Classifier) IsTypeContext(n domain.SyntaxNode) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if typeContexts[cur.Type()] {
			return true
		}
		if cur.Type() == "statement_block" || cur.Type() == "program" {
			return false
		}
	}
	return false
}

// IsImportStatement reports whether n is a module specifier of an import,
// a re-export, a require call or a dynamic import.
func (c *Classifier) IsImportStatement(n domain.SyntaxNode) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "import_statement", "import_require_clause", "external_module_reference":
			return true
		case "export_statement":
			return cur.ChildByField("source") != nil && cur.ChildByField("declaration") == nil
		case "call_expression":
			fn := cur.ChildByField("function")
			if fn != nil && (fn.Type() == "import" || (fn.Type() == "identifier" && fn.Text() == "require")) {
				return isDirectArgument(n, cur)
			}
		}
		if functionBoundaries[cur.Type()] || cur.Type() == "statement_block" {
			return false
		}
	}
	return false
}

// IsTestDescription reports whether n is the title argument of a test
// framework call such as describe("...") or it.each(...)("...").
func (c *Classifier) IsTestDescription(n domain.SyntaxNode) bool {
	call := directCall(n)
	if call == nil || !isFirstArgument(n) {
		return false
	}
	fn := call.ChildByField("function")
	if fn == nil {
		return false
	}
	switch fn.Type() {
	case "identifier":
		return testFunctions[fn.Text()]
	case "member_expression":
		obj := fn.ChildByField("object")
		return obj != nil && testFunctions[rootIdentifier(obj)]
	case "call_expression":
		// describe.each(table)("title", ...)
		inner := fn.ChildByField("function")
		return inner != nil && testFunctions[rootIdentifier(inner)]
	}
	return false
}

// IsLoggingCall reports whether n is an argument (at any depth) of a call
// such as console.log, logger.warn or this.logger.error within the same
// function body.
func (c *Classifier) IsLoggingCall(n domain.SyntaxNode) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Type() == "call_expression" && isLoggingCallee(cur.ChildByField("function")) {
			return true
		}
		if functionBoundaries[cur.Type()] || cur.Type() == "statement_block" {
			return false
		}
	}
	return false
}

// IsSymbolConstruction reports whether n is the description passed to
// Symbol() or Symbol.for().
func (c *Classifier) IsSymbolConstruction(n domain.SyntaxNode) bool {
	call := directCall(n)
	if call == nil {
		return false
	}
	fn := call.ChildByField("function")
	if fn == nil {
		return false
	}
	text := fn.Text()
	return text == "Symbol" || text == "Symbol.for"
}

// IsRuntimeTypeCheck reports whether n is the type name compared against a
// typeof expression, either in a comparison or in a switch over typeof.
func (c *Classifier) IsRuntimeTypeCheck(n domain.SyntaxNode) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	switch p.Type() {
	case "binary_expression":
		op := p.ChildByField("operator")
		if op == nil {
			op = p.Child(1)
		}
		if op == nil || !comparisonOperators[op.Type()] {
			return false
		}
		for _, side := range []string{"left", "right"} {
			if operand := p.ChildByField(side); operand != nil && isTypeofExpression(operand) {
				return true
			}
		}
	case "switch_case":
		body := p.Parent()
		if body == nil || body.Parent() == nil {
			return false
		}
		value := body.Parent().ChildByField("value")
		return value != nil && strings.Contains(value.Text(), "typeof ")
	}
	return false
}

// IsConfigObjectMember reports whether parent (the node directly holding a
// literal) is an object property whose key, or whose enclosing binding,
// names a configuration value.
func (c *Classifier) IsConfigObjectMember(parent domain.SyntaxNode) bool {
	if parent == nil || parent.Type() != "pair" {
		return false
	}
	if c.ContainsConfigKeyword(PropertyName(parent)) {
		return true
	}
	obj := parent.Parent()
	if obj == nil || obj.Type() != "object" {
		return false
	}
	owner := obj.Parent()
	if owner == nil {
		return false
	}
	name := strings.ToLower(PropertyName(owner))
	return strings.Contains(name, "config") || strings.Contains(name, "options") || strings.Contains(name, "settings")
}

// ContainsConfigKeyword reports whether name contains a configuration keyword.
func (c *Classifier) ContainsConfigKeyword(name string) bool {
	lower := strings.ToLower(name)
	if lower == "" {
		return false
	}
	for _, k := range c.configKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// EnclosingName returns the name of the nearest declarator, property, class
// field or assignment target enclosing n within its function body.
func (c *Classifier) EnclosingName(n domain.SyntaxNode) string {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if name := PropertyName(cur); name != "" {
			return name
		}
		if functionBoundaries[cur.Type()] || cur.Type() == "statement_block" {
			return ""
		}
	}
	return ""
}

// SurroundingStatement returns the nearest statement-level ancestor
// (declaration, key/value pair, call, return), or n itself.
func (c *Classifier) SurroundingStatement(n domain.SyntaxNode) domain.SyntaxNode {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if statementLevel[cur.Type()] {
			return cur
		}
	}
	return n
}

// SurroundingStatementText returns the lower-cased text of
// SurroundingStatement, a crude keyword-context signal.
func (c *Classifier) SurroundingStatementText(n domain.SyntaxNode) string {
	return strings.ToLower(c.SurroundingStatement(n).Text())
}

// Tags returns every context tag n satisfies, or Unclassified.
func (c *Classifier) Tags(n domain.SyntaxNode) []domain.LiteralContext {
	var tags []domain.LiteralContext
	checks := []struct {
		tag domain.LiteralContext
		fn  func(domain.SyntaxNode) bool
	}{
		{domain.ContextExportedConstant, c.IsExportedConstant},
		{domain.ContextType, c.IsTypeContext},
		{domain.ContextImport, c.IsImportStatement},
		{domain.ContextTestDescription, c.IsTestDescription},
		{domain.ContextLoggingCall, c.IsLoggingCall},
		{domain.ContextRuntimeTypeCheck, c.IsRuntimeTypeCheck},
		{domain.ContextSymbolConstruction, c.IsSymbolConstruction},
	}
	for _, chk := range checks {
		if chk.fn(n) {
			tags = append(tags, chk.tag)
		}
	}
	if c.IsConfigObjectMember(n.Parent()) {
		tags = append(tags, domain.ContextConfigObjectMember)
	}
	if len(tags) == 0 {
		tags = append(tags, domain.ContextUnclassified)
	}
	return tags
}

// CalleeName returns the called name when n is a direct call argument:
// the identifier for f(x) or the property for a.b.f(x).
func CalleeName(n domain.SyntaxNode) string {
	call := directCall(n)
	if call == nil {
		return ""
	}
	fn := call.ChildByField("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return fn.Text()
	case "member_expression":
		if prop := fn.ChildByField("property"); prop != nil {
			return prop.Text()
		}
	}
	return ""
}

// PropertyName returns the binding name introduced by n, or "" if n does not
// name anything.
func PropertyName(n domain.SyntaxNode) string {
	var key domain.SyntaxNode
	switch n.Type() {
	case "pair":
		key = n.ChildByField("key")
	case "variable_declarator", "public_field_definition", "field_definition", "property_signature":
		key = n.ChildByField("name")
		if key == nil {
			key = n.ChildByField("property")
		}
	case "assignment_expression", "augmented_assignment_expression":
		key = n.ChildByField("left")
		if key != nil && key.Type() == "member_expression" {
			key = key.ChildByField("property")
		}
	}
	if key == nil {
		return ""
	}
	return strings.Trim(key.Text(), `"'`+"`")
}

// StringPayload strips the quotes from a string or template literal.
func StringPayload(n domain.SyntaxNode) string {
	text := n.Text()
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' || first == '\'' || first == '`') && last == first {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func isConstDeclaration(decl domain.SyntaxNode) bool {
	if kind := decl.ChildByField("kind"); kind != nil {
		return kind.Type() == "const"
	}
	first := decl.Child(0)
	return first != nil && first.Type() == "const"
}

func hasModifier(n domain.SyntaxNode, modifier string) bool {
	for _, c := range domain.Children(n) {
		if c.Type() == modifier {
			return true
		}
	}
	return false
}

// directCall returns the call or new expression when n is one of its
// arguments.
func directCall(n domain.SyntaxNode) domain.SyntaxNode {
	args := n.Parent()
	if args == nil || args.Type() != "arguments" {
		return nil
	}
	call := args.Parent()
	if call == nil || (call.Type() != "call_expression" && call.Type() != "new_expression") {
		return nil
	}
	return call
}

func isDirectArgument(n, call domain.SyntaxNode) bool {
	c := directCall(n)
	return c != nil && c.StartPosition() == call.StartPosition() && c.Type() == call.Type()
}

func isFirstArgument(n domain.SyntaxNode) bool {
	args := n.Parent()
	if args == nil {
		return false
	}
	named := domain.NamedChildren(args)
	return len(named) > 0 && named[0].StartPosition() == n.StartPosition()
}

func rootIdentifier(n domain.SyntaxNode) string {
	for n != nil && n.Type() == "member_expression" {
		n = n.ChildByField("object")
	}
	if n == nil {
		return ""
	}
	return n.Text()
}

func isLoggingCallee(fn domain.SyntaxNode) bool {
	if fn == nil || fn.Type() != "member_expression" {
		return false
	}
	prop := fn.ChildByField("property")
	obj := fn.ChildByField("object")
	if prop == nil || obj == nil || !logMethods[prop.Text()] {
		return false
	}
	target := strings.ToLower(obj.Text())
	if i := strings.LastIndex(target, "."); i >= 0 {
		target = target[i+1:]
	}
	return target == "console" || strings.Contains(target, "log")
}

func isTypeofExpression(n domain.SyntaxNode) bool {
	if n.Type() == "parenthesized_expression" && n.ChildCount() >= 3 {
		n = n.Child(1)
	}
	if n.Type() != "unary_expression" {
		return false
	}
	op := n.ChildByField("operator")
	if op == nil {
		op = n.Child(0)
	}
	return op != nil && op.Type() == "typeof"
}
