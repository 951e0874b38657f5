// Package cst wraps the tree-sitter Python grammar behind a small
// concrete-syntax-tree surface: parse once, then read node kinds and
// verbatim source regions.
package cst

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax indicates the source text failed to parse
var ErrSyntax = errors.New("syntax error")

// Tree is a parsed Python source file. It owns its source bytes and the
// underlying tree-sitter tree; both are immutable after Parse returns.
type Tree struct {
	src  []byte
	tree *sitter.Tree
}

// Parse parses Python source into a Tree. Sources with syntax errors are
// rejected rather than returned as partial trees.
func Parse(ctx context.Context, src string) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, []byte(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	if tree.RootNode().HasError() {
		return nil, fmt.Errorf("%w: source is not valid python", ErrSyntax)
	}

	return &Tree{src: []byte(src), tree: tree}, nil
}

// Root returns the module node
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Source returns the original source text
func (t *Tree) Source() string {
	return string(t.src)
}

// Code returns the verbatim source text spanned by a node
func (t *Tree) Code(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(t.src)
}

// Slice returns the source text in the byte range [start, end)
func (t *Tree) Slice(start, end uint32) string {
	if start >= end || int(start) >= len(t.src) {
		return ""
	}
	if int(end) > len(t.src) {
		end = uint32(len(t.src))
	}
	return string(t.src[start:end])
}

// LineStart extends an offset back to the start of its line when only
// indentation precedes it. Offsets with non-whitespace text earlier on the
// same line are returned unchanged, so single-line suites keep their spans.
func (t *Tree) LineStart(offset uint32) uint32 {
	i := int(offset)
	if i > len(t.src) {
		i = len(t.src)
	}
	j := i
	for j > 0 && t.src[j-1] != '\n' {
		if t.src[j-1] != ' ' && t.src[j-1] != '\t' {
			return offset
		}
		j--
	}
	return uint32(j)
}

// LineEnd extends an offset forward past the next newline, or to the end of
// the source if no newline follows.
func (t *Tree) LineEnd(offset uint32) uint32 {
	i := int(offset)
	for i < len(t.src) {
		if t.src[i] == '\n' {
			return uint32(i + 1)
		}
		i++
	}
	return uint32(len(t.src))
}

// Prefix returns the source gap between a node and its previous sibling.
// For a first child the gap is the line indentation before the node.
func (t *Tree) Prefix(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	prev := n.PrevSibling()
	if prev == nil {
		return t.Slice(t.LineStart(n.StartByte()), n.StartByte())
	}
	return t.Slice(prev.EndByte(), n.StartByte())
}

// NodeName returns the text of a definition node's name field
func (t *Tree) NodeName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return t.Code(name)
}

// Unwrap resolves a decorated_definition to the definition it wraps.
// Other nodes are returned unchanged.
func Unwrap(n *sitter.Node) *sitter.Node {
	if KindOf(n) != KindDecoratedDef {
		return n
	}
	if def := n.ChildByFieldName("definition"); def != nil {
		return def
	}
	return n
}

// Decorators returns the decorator nodes attached to a definition, in
// document order, or nil when the definition is not decorated.
func Decorators(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	parent := n.Parent()
	if KindOf(parent) != KindDecoratedDef {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if KindOf(child) == KindDecorator {
			out = append(out, child)
		}
	}
	return out
}

// TopLevelFunctions returns the module's top-level function definitions,
// unwrapping decorated definitions. Nested functions are not included.
func (t *Tree) TopLevelFunctions() []*sitter.Node {
	var out []*sitter.Node
	root := t.Root()
	for i := 0; i < int(root.ChildCount()); i++ {
		def := Unwrap(root.Child(i))
		if KindOf(def) == KindFunctionDef {
			out = append(out, def)
		}
	}
	return out
}

// ChildrenOfKind returns a node's direct children of the given kinds
func ChildrenOfKind(n *sitter.Node, kinds ...Kind) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		k := KindOf(child)
		for _, want := range kinds {
			if k == want {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// StringText returns the unquoted contents of a string literal node,
// concatenating its string_content and escape_sequence children. Escape
// sequences are returned as written in the source, not interpreted, so
// `\n` stays a backslash and an n.
func (t *Tree) StringText(n *sitter.Node) string {
	if KindOf(n) != KindString {
		return ""
	}
	var out string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if k := KindOf(child); k == KindStringContent || k == KindEscapeSeq {
			out += t.Code(child)
		}
	}
	return out
}
