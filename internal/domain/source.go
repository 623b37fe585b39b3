package domain

// Position is a zero-based row/column location in source text.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// SyntaxNode is an opaque handle to a node of a concrete syntax tree.
// Implementations must return nil from Parent at the root and from Child and
// ChildByField when there is no such child.
type SyntaxNode interface {
	Type() string
	Text() string
	StartPosition() Position
	IsNamed() bool
	Parent() SyntaxNode
	ChildCount() int
	Child(i int) SyntaxNode
	ChildByField(name string) SyntaxNode
}

// ParseTree owns the nodes reachable from Root. Close releases it.
type ParseTree interface {
	Root() SyntaxNode
	HasErrors() bool
	Close()
}

// SourceUnit is one file handed to the detectors.
type SourceUnit struct {
	Path  string
	Text  string
	Tree  ParseTree // nil when parsing failed
	Layer Layer
}

// NewSourceUnit builds a SourceUnit; the layer is resolved once by the caller.
func NewSourceUnit(path, text string, tree ParseTree, layer Layer) *SourceUnit {
	return &SourceUnit{Path: path, Text: text, Tree: tree, Layer: layer}
}

// Root returns the tree root or nil when the unit has no tree.
func (u *SourceUnit) Root() SyntaxNode {
	if u == nil || u.Tree == nil {
		return nil
	}
	return u.Tree.Root()
}

// Children returns all direct children of n.
func Children(n SyntaxNode) []SyntaxNode {
	if n == nil {
		return nil
	}
	count := n.ChildCount()
	out := make([]SyntaxNode, 0, count)
	for i := 0; i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named direct children of n.
func NamedChildren(n SyntaxNode) []SyntaxNode {
	var out []SyntaxNode
	for _, c := range Children(n) {
		if c.IsNamed() {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the node's children. It uses an explicit stack.
func Walk(n SyntaxNode, fn func(SyntaxNode) bool) {
	if n == nil {
		return
	}
	stack := []SyntaxNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		kids := Children(cur)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}

// Line returns the 1-based line of n.
func Line(n SyntaxNode) int {
	return n.StartPosition().Row + 1
}

// Column returns the 1-based column of n.
func Column(n SyntaxNode) int {
	return n.StartPosition().Column + 1
}
