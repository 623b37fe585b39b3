package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/openkraft/layerlint/internal/domain"
)

// TreeSitterParser implements domain.SourceParser for TypeScript and
// JavaScript using tree-sitter. A fresh sitter.Parser is created per call
// because parsers are not safe for concurrent use.
type TreeSitterParser struct{}

func New() *TreeSitterParser {
	return &TreeSitterParser{}
}

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	default:
		return nil
	}
}

func (p *TreeSitterParser) Supports(path string) bool {
	return languageFor(path) != nil
}

func (p *TreeSitterParser) Parse(ctx context.Context, path string, text []byte) (domain.ParseTree, error) {
	lang := languageFor(path)
	if lang == nil {
		return nil, fmt.Errorf("parsing %s: unsupported file type", path)
	}

	sp := sitter.NewParser()
	sp.SetLanguage(lang)

	tree, err := sp.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("parsing %s: empty tree", path)
	}
	return &parseTree{tree: tree, src: text}, nil
}

// ParseString is a convenience wrapper used by tests and the MCP adapter.
func (p *TreeSitterParser) ParseString(path, text string) (domain.ParseTree, error) {
	return p.Parse(context.Background(), path, []byte(text))
}

type parseTree struct {
	tree *sitter.Tree
	src  []byte
}

func (t *parseTree) Root() domain.SyntaxNode {
	return wrap(t.tree.RootNode(), t.src)
}

func (t *parseTree) HasErrors() bool {
	return t.tree.RootNode().HasError()
}

func (t *parseTree) Close() {
	t.tree.Close()
}

type node struct {
	n   *sitter.Node
	src []byte
}

func wrap(n *sitter.Node, src []byte) domain.SyntaxNode {
	if n == nil {
		return nil
	}
	return &node{n: n, src: src}
}

func (w *node) Type() string { return w.n.Type() }

func (w *node) Text() string { return w.n.Content(w.src) }

func (w *node) StartPosition() domain.Position {
	p := w.n.StartPoint()
	return domain.Position{Row: int(p.Row), Column: int(p.Column)}
}

func (w *node) IsNamed() bool { return w.n.IsNamed() }

func (w *node) Parent() domain.SyntaxNode { return wrap(w.n.Parent(), w.src) }

func (w *node) ChildCount() int { return int(w.n.ChildCount()) }

func (w *node) Child(i int) domain.SyntaxNode { return wrap(w.n.Child(i), w.src) }

func (w *node) ChildByField(name string) domain.SyntaxNode {
	return wrap(w.n.ChildByFieldName(name), w.src)
}
