// Package slicer decomposes a single Python function into its structural
// regions: decorators, signature, docstring and body.
package slicer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/brenoschmidt/pyslice/internal/cst"
	"github.com/brenoschmidt/pyslice/internal/textutil"
)

var (
	// ErrConstruction indicates an invalid combination of constructor inputs
	ErrConstruction = errors.New("invalid slicer construction")

	// ErrFunctionNotFound indicates no top-level function matched the name
	ErrFunctionNotFound = errors.New("function not found")

	// ErrUnsupportedShape indicates the function node does not match either
	// supported signature shape (with or without a return annotation)
	ErrUnsupportedShape = errors.New("unsupported function shape")

	// ErrInternal indicates a defensive invariant check failed
	ErrInternal = errors.New("internal invariant violated")
)

// Options selects the slicer's input. Exactly one of Source or File must be
// set, and Name is always required.
type Options struct {
	// Name of the target function
	Name string

	// Source containing the function definition
	Source string

	// File to read the source from. The read happens once, at construction.
	File string
}

// SigField identifies a signature sub-node for RenderSignature
type SigField int

const (
	FieldKwDef SigField = iota
	FieldName
	FieldParms
	FieldArrow
	FieldAnnotation
	FieldColon
)

// sigFieldOrder fixes the concatenation order regardless of caller order
var sigFieldOrder = []SigField{
	FieldKwDef,
	FieldName,
	FieldParms,
	FieldArrow,
	FieldAnnotation,
	FieldColon,
}

// FuncParts holds the function node's children by grammar position. Arrow
// and Annotation are set together, and only for the annotated shape.
type FuncParts struct {
	KwDef      *sitter.Node
	Name       *sitter.Node
	Parms      *sitter.Node
	Arrow      *sitter.Node
	Annotation *sitter.Node
	Colon      *sitter.Node
	Suite      *sitter.Node

	// Annotated is true when the signature declares a return type
	Annotated bool
}

// SuiteParts splits a function body suite into the newline run after the
// colon, an optional docstring statement, and the remaining statements.
// Body is nil, not empty, when only a docstring is present.
type SuiteParts struct {
	Newlines string
	Doc      *sitter.Node
	Body     []*sitter.Node
}

// Codes holds the rendered source fragments of a sliced function. The four
// fragments are contiguous: Decor+Sig+Doc+Body reproduces the function's
// slice of the original source byte-for-byte.
type Codes struct {
	Decor string
	Sig   string
	Doc   string
	Body  string
}

// View is the dedent-normalized fragment view handed to collaborators
type View struct {
	Decor string
	Sig   string
	Doc   string
	Body  string
}

// Slicer slices one function out of one source text. Instances are
// immutable after construction; derived views are computed lazily and
// cached, so a single instance is not safe for concurrent first use.
type Slicer struct {
	name string
	src  string
	file string

	// margin is the uniform indentation of snippet sources (a method
	// extracted from its class, say). The grammar rejects indented
	// modules, so parsing works on the dedented text and rendered
	// fragments are re-indented to match the original source.
	margin   int
	parseSrc string

	tree    *cst.Tree
	treeErr error
	treeSet bool

	fn    *sitter.Node
	fnErr error
	fnSet bool

	parts    FuncParts
	partsErr error
	partsSet bool

	suite    SuiteParts
	suiteErr error
	suiteSet bool

	codes    Codes
	codesErr error
	codesSet bool

	views map[viewKey]View
}

type viewKey struct {
	dedent         bool
	useDeclaredDoc bool
}

// New validates the input combination and returns a slicer. The source is
// not parsed until first use.
func New(opts Options) (*Slicer, error) {
	switch {
	case opts.Source != "" && opts.File != "":
		return nil, fmt.Errorf("%w: source and file are mutually exclusive", ErrConstruction)
	case opts.Source == "" && opts.File == "":
		return nil, fmt.Errorf("%w: one of source or file is required", ErrConstruction)
	case opts.Name == "":
		return nil, fmt.Errorf("%w: function name is required", ErrConstruction)
	}

	s := &Slicer{
		name:  opts.Name,
		src:   opts.Source,
		file:  opts.File,
		views: make(map[viewKey]View),
	}

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read source file: %w", err)
		}
		s.src = string(data)
	}

	s.margin = snippetMargin(s.src)
	s.parseSrc = textutil.DedentBy(s.src, s.margin)

	return s, nil
}

// snippetMargin returns the leading-space count of the first non-blank
// line: the uniform indentation of an extracted snippet, 0 for modules.
func snippetMargin(src string) int {
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return len(line) - len(strings.TrimLeft(line, " "))
	}
	return 0
}

// Name returns the target function name
func (s *Slicer) Name() string {
	return s.name
}

// Source returns the source text being sliced
func (s *Slicer) Source() string {
	return s.src
}

// Tree parses the source on first call and caches the result
func (s *Slicer) Tree() (*cst.Tree, error) {
	if !s.treeSet {
		s.tree, s.treeErr = cst.Parse(context.Background(), s.parseSrc)
		s.treeSet = true
	}
	return s.tree, s.treeErr
}

// Func locates the first top-level function definition matching the target
// name. Nested functions are never considered.
func (s *Slicer) Func() (*sitter.Node, error) {
	if s.fnSet {
		return s.fn, s.fnErr
	}
	s.fnSet = true

	tree, err := s.Tree()
	if err != nil {
		s.fnErr = err
		return nil, s.fnErr
	}

	for _, fn := range tree.TopLevelFunctions() {
		if tree.NodeName(fn) != s.name {
			continue
		}
		if cst.KindOf(fn) != cst.KindFunctionDef {
			s.fnErr = fmt.Errorf("%w: matched node is not a function definition", ErrInternal)
			return nil, s.fnErr
		}
		s.fn = fn
		return s.fn, nil
	}

	s.fnErr = fmt.Errorf("%w: no top-level def %q", ErrFunctionNotFound, s.name)
	return nil, s.fnErr
}

// Parts decomposes the function node's children by fixed grammar position:
// def keyword, name, parameter list, then either a colon and suite or an
// arrow, annotation, colon and suite.
func (s *Slicer) Parts() (FuncParts, error) {
	if s.partsSet {
		return s.parts, s.partsErr
	}
	s.partsSet = true
	s.parts, s.partsErr = s.decomposeSignature()
	return s.parts, s.partsErr
}

func (s *Slicer) decomposeSignature() (FuncParts, error) {
	fn, err := s.Func()
	if err != nil {
		return FuncParts{}, err
	}

	// Comments attach as extra children of the definition node (a trailing
	// comment on the def line, a comment before the first statement). They
	// carry no structure; drop them before the positional decomposition.
	var kids []*sitter.Node
	for i := 0; i < int(fn.ChildCount()); i++ {
		child := fn.Child(i)
		if cst.KindOf(child) == cst.KindComment {
			continue
		}
		kids = append(kids, child)
	}

	count := len(kids)
	if count < 5 {
		return FuncParts{}, fmt.Errorf("%w: expected at least 5 children, got %d", ErrUnsupportedShape, count)
	}

	p := FuncParts{
		KwDef: kids[0],
		Name:  kids[1],
		Parms: kids[2],
	}

	consumed := 0
	arrowOrColon := kids[3]
	if arrowOrColon.Type() == ":" {
		p.Colon = arrowOrColon
		p.Suite = kids[4]
		consumed = 5
	} else {
		if count < 7 {
			return FuncParts{}, fmt.Errorf("%w: truncated annotated signature", ErrUnsupportedShape)
		}
		p.Arrow = arrowOrColon
		p.Annotation = kids[4]
		p.Colon = kids[5]
		p.Suite = kids[6]
		p.Annotated = true
		consumed = 7
		if p.Colon.Type() != ":" {
			return FuncParts{}, fmt.Errorf("%w: expected colon after annotation, got %q", ErrUnsupportedShape, p.Colon.Type())
		}
	}

	if consumed < count {
		return FuncParts{}, fmt.Errorf("%w: %d children left unconsumed", ErrUnsupportedShape, count-consumed)
	}
	if p.KwDef.Type() != "def" {
		return FuncParts{}, fmt.Errorf("%w: first child is %q, not the def keyword", ErrUnsupportedShape, p.KwDef.Type())
	}

	return p, nil
}

// Suite splits the suite into leading newlines, docstring and body. The
// docstring is the suite's first statement if and only if that statement is
// a bare string expression.
func (s *Slicer) Suite() (SuiteParts, error) {
	if s.suiteSet {
		return s.suite, s.suiteErr
	}
	s.suiteSet = true
	s.suite, s.suiteErr = s.decomposeSuite()
	return s.suite, s.suiteErr
}

func (s *Slicer) decomposeSuite() (SuiteParts, error) {
	parts, err := s.Parts()
	if err != nil {
		return SuiteParts{}, err
	}

	var sp SuiteParts
	suite := parts.Suite
	if suite == nil {
		return sp, nil
	}

	tree, err := s.Tree()
	if err != nil {
		return SuiteParts{}, err
	}

	count := int(suite.ChildCount())
	if count == 0 {
		return sp, nil
	}

	first := suite.Child(0)
	sp.Newlines = tree.Slice(parts.Colon.EndByte(), tree.LineStart(first.StartByte()))

	// Comment lines before the docstring do not displace it
	rest := 0
	for rest < count && cst.KindOf(suite.Child(rest)) == cst.KindComment {
		rest++
	}
	if rest < count && isDocstring(suite.Child(rest)) {
		sp.Doc = suite.Child(rest)
		rest++
	}

	for i := rest; i < count; i++ {
		sp.Body = append(sp.Body, suite.Child(i))
	}

	return sp, nil
}

// isDocstring reports whether a suite statement is a bare string expression
func isDocstring(n *sitter.Node) bool {
	if cst.KindOf(n) != cst.KindExprStatement {
		return false
	}
	return cst.KindOf(n.Child(0)) == cst.KindString
}

// Codes renders the four fragments from contiguous byte regions of the
// source, so their concatenation round-trips the function's slice of it.
func (s *Slicer) Codes() (Codes, error) {
	if s.codesSet {
		return s.codes, s.codesErr
	}
	s.codesSet = true
	s.codes, s.codesErr = s.renderCodes()
	return s.codes, s.codesErr
}

func (s *Slicer) renderCodes() (Codes, error) {
	parts, err := s.Parts()
	if err != nil {
		return Codes{}, err
	}
	suite, err := s.Suite()
	if err != nil {
		return Codes{}, err
	}
	tree, err := s.Tree()
	if err != nil {
		return Codes{}, err
	}
	fn, err := s.Func()
	if err != nil {
		return Codes{}, err
	}

	sigStart := tree.LineStart(parts.KwDef.StartByte())
	decorStart := sigStart
	if decorators := cst.Decorators(fn); len(decorators) > 0 {
		decorStart = tree.LineStart(decorators[0].StartByte())
	}

	end := tree.LineEnd(fn.EndByte())

	sigEnd := end
	if parts.Suite != nil && parts.Suite.ChildCount() > 0 {
		sigEnd = tree.LineStart(parts.Suite.Child(0).StartByte())
	}

	docEnd := sigEnd
	if suite.Doc != nil {
		if next := suite.Doc.NextSibling(); next != nil {
			docEnd = tree.LineStart(next.StartByte())
		} else {
			docEnd = end
		}
	}

	codes := Codes{
		Decor: tree.Slice(decorStart, sigStart),
		Sig:   tree.Slice(sigStart, sigEnd),
		Doc:   tree.Slice(sigEnd, docEnd),
		Body:  tree.Slice(docEnd, end),
	}
	if s.margin > 0 {
		codes.Decor = textutil.IndentBy(codes.Decor, s.margin)
		codes.Sig = textutil.IndentBy(codes.Sig, s.margin)
		codes.Doc = textutil.IndentBy(codes.Doc, s.margin)
		codes.Body = textutil.IndentBy(codes.Body, s.margin)
	}
	return codes, nil
}

// IndentSize returns the number of leading spaces on the signature line
// that starts with the def keyword, or 0 when no such line exists.
func (s *Slicer) IndentSize() (int, error) {
	codes, err := s.Codes()
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(codes.Sig, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "def") {
			return len(line) - len(strings.TrimLeft(line, " ")), nil
		}
	}
	return 0, nil
}

// Indent returns the indentation string implied by IndentSize
func (s *Slicer) Indent() (string, error) {
	n, err := s.IndentSize()
	if err != nil {
		return "", err
	}
	return strings.Repeat(" ", n), nil
}

// View returns the fragment view. With dedent, exactly IndentSize leading
// spaces are removed from every line of every fragment. With
// useDeclaredDoc, the doc fragment is replaced by the unquoted docstring
// text, mirroring the runtime-reported docstring attribute.
func (s *Slicer) View(dedent, useDeclaredDoc bool) (View, error) {
	key := viewKey{dedent: dedent, useDeclaredDoc: useDeclaredDoc}
	if v, ok := s.views[key]; ok {
		return v, nil
	}

	codes, err := s.Codes()
	if err != nil {
		return View{}, err
	}
	indent, err := s.IndentSize()
	if err != nil {
		return View{}, err
	}

	v := View{
		Decor: codes.Decor,
		Sig:   codes.Sig,
		Doc:   codes.Doc,
		Body:  codes.Body,
	}
	if dedent {
		v.Decor = textutil.DedentBy(v.Decor, indent)
		v.Sig = textutil.DedentBy(v.Sig, indent)
		v.Doc = textutil.DedentBy(v.Doc, indent)
		v.Body = textutil.DedentBy(v.Body, indent)
	}
	if useDeclaredDoc {
		doc, err := s.DocText()
		if err != nil {
			return View{}, err
		}
		v.Doc = doc
	}

	s.views[key] = v
	return v, nil
}

// DocText returns the unquoted docstring text as written in the source,
// escape sequences included verbatim, or "" without a docstring.
func (s *Slicer) DocText() (string, error) {
	suite, err := s.Suite()
	if err != nil {
		return "", err
	}
	if suite.Doc == nil {
		return "", nil
	}
	tree, err := s.Tree()
	if err != nil {
		return "", err
	}
	return tree.StringText(suite.Doc.Child(0)), nil
}

// RenderSignature concatenates the source text of the selected signature
// sub-nodes in fixed field order, ignoring absent fields.
func (s *Slicer) RenderSignature(fields ...SigField) (string, error) {
	parts, err := s.Parts()
	if err != nil {
		return "", err
	}
	tree, err := s.Tree()
	if err != nil {
		return "", err
	}

	want := make(map[SigField]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	var b strings.Builder
	for _, f := range sigFieldOrder {
		if !want[f] {
			continue
		}
		node := parts.field(f)
		if node == nil {
			continue
		}
		b.WriteString(tree.Prefix(node))
		b.WriteString(tree.Code(node))
	}
	return b.String(), nil
}

func (p FuncParts) field(f SigField) *sitter.Node {
	switch f {
	case FieldKwDef:
		return p.KwDef
	case FieldName:
		return p.Name
	case FieldParms:
		return p.Parms
	case FieldArrow:
		return p.Arrow
	case FieldAnnotation:
		return p.Annotation
	case FieldColon:
		return p.Colon
	}
	return nil
}
