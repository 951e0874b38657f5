package slicer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brenoschmidt/pyslice/internal/cst"
	"github.com/brenoschmidt/pyslice/internal/textutil"
)

const squareSrc = "def square(x):\n    \"\"\"Sq.\"\"\"\n    return x*x\n"

func mustSlicer(t *testing.T, name, src string) *Slicer {
	t.Helper()
	s, err := New(Options{Name: name, Source: src})
	require.NoError(t, err)
	return s
}

func TestNew_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"both source and file", Options{Name: "f", Source: "def f(): pass", File: "x.py"}},
		{"neither source nor file", Options{Name: "f"}},
		{"source without name", Options{Source: "def f(): pass"}},
		{"file without name", Options{File: "x.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.ErrorIs(t, err, ErrConstruction)
		})
	}
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "eg_module.py")
	s, err := New(Options{File: path, Name: "square"})
	require.NoError(t, err)

	view, err := s.View(true, false)
	require.NoError(t, err)
	assert.Contains(t, view.Sig, "def square(x):")
	assert.Contains(t, view.Doc, "Return the square")
}

func TestView_SquareExample(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)

	view, err := s.View(true, false)
	require.NoError(t, err)
	assert.Contains(t, view.Sig, "def square(x):")
	assert.Contains(t, view.Doc, "Sq.")
	assert.Contains(t, view.Body, "return x*x")
	assert.NotContains(t, view.Body, "Sq.")
}

func TestCodes_RoundTrip(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)

	codes, err := s.Codes()
	require.NoError(t, err)
	assert.Equal(t, squareSrc, codes.Decor+codes.Sig+codes.Doc+codes.Body)
}

func TestCodes_NoDocstring(t *testing.T) {
	src := "def f(x):\n    y = x + 1\n    return y\n"
	s := mustSlicer(t, "f", src)

	codes, err := s.Codes()
	require.NoError(t, err)
	assert.Equal(t, "", codes.Doc)
	assert.Equal(t, "def f(x):\n", codes.Sig)
	assert.True(t, strings.HasPrefix(strings.TrimLeft(codes.Body, " "), "y = x + 1"))
}

func TestCodes_Decorators(t *testing.T) {
	src := "@trace\n@other(arg=1)\ndef f():\n    pass\n"
	s := mustSlicer(t, "f", src)

	codes, err := s.Codes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(codes.Decor, "@trace"))
	assert.Contains(t, codes.Decor, "@other(arg=1)")
	assert.True(t, strings.HasPrefix(codes.Sig, "def f()"))

	// No decorators renders as empty string
	s2 := mustSlicer(t, "square", squareSrc)
	codes2, err := s2.Codes()
	require.NoError(t, err)
	assert.Equal(t, "", codes2.Decor)
}

func TestIndentSize_TopLevel(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)
	n, err := s.IndentSize()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIndentSize_IndentedSnippet(t *testing.T) {
	// A method snippet extracted from its class keeps the class-level indent
	src := "    def m(self):\n        \"\"\"Doc.\"\"\"\n        return 1\n"
	s := mustSlicer(t, "m", src)

	n, err := s.IndentSize()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	indent, err := s.Indent()
	require.NoError(t, err)
	assert.Equal(t, "    ", indent)
}

func TestCodes_IndentedSnippetRoundTrip(t *testing.T) {
	src := "    def m(self):\n        \"\"\"Doc.\"\"\"\n        return 1\n"
	s := mustSlicer(t, "m", src)

	codes, err := s.Codes()
	require.NoError(t, err)
	assert.Equal(t, src, codes.Decor+codes.Sig+codes.Doc+codes.Body)
}

func TestView_DedentInvariant(t *testing.T) {
	src := "    def m(self):\n        return 1\n"
	s := mustSlicer(t, "m", src)

	raw, err := s.View(false, false)
	require.NoError(t, err)
	dedented, err := s.View(true, false)
	require.NoError(t, err)

	n, err := s.IndentSize()
	require.NoError(t, err)

	assert.Equal(t, "def m(self):\n", dedented.Sig)
	assert.Equal(t, raw.Sig, textutil.IndentBy(dedented.Sig, n))
	assert.Equal(t, raw.Body, textutil.IndentBy(dedented.Body, n))
}

func TestView_UseDeclaredDoc(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)

	doc, err := s.DocText()
	require.NoError(t, err)
	assert.Equal(t, "Sq.", doc)

	view, err := s.View(true, true)
	require.NoError(t, err)
	assert.Equal(t, "Sq.", view.Doc)
}

func TestView_Idempotent(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)

	first, err := s.View(true, false)
	require.NoError(t, err)
	second, err := s.View(true, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	c1, err := s.Codes()
	require.NoError(t, err)
	c2, err := s.Codes()
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestFunc_NotFound(t *testing.T) {
	s := mustSlicer(t, "missing", squareSrc)
	_, err := s.Func()
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestFunc_NestedNotFound(t *testing.T) {
	// Only top-level defs are scanned
	src := "def outer():\n    def inner():\n        pass\n    return inner\n"
	s := mustSlicer(t, "inner", src)
	_, err := s.Func()
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestTree_SyntaxError(t *testing.T) {
	s := mustSlicer(t, "f", "def f(:\n")
	_, err := s.Tree()
	assert.ErrorIs(t, err, cst.ErrSyntax)
}

func TestParts_WithoutAnnotation(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)

	parts, err := s.Parts()
	require.NoError(t, err)
	assert.False(t, parts.Annotated)
	assert.Nil(t, parts.Arrow)
	assert.Nil(t, parts.Annotation)
	assert.NotNil(t, parts.Colon)
	assert.NotNil(t, parts.Suite)
}

func TestParts_WithAnnotation(t *testing.T) {
	src := "def f(x) -> int:\n    return x\n"
	s := mustSlicer(t, "f", src)

	parts, err := s.Parts()
	require.NoError(t, err)
	assert.True(t, parts.Annotated)
	assert.NotNil(t, parts.Arrow)
	assert.NotNil(t, parts.Annotation)
	assert.NotNil(t, parts.Colon)
	assert.NotNil(t, parts.Suite)
}

func TestParts_AsyncUnsupported(t *testing.T) {
	src := "async def f():\n    pass\n"
	s := mustSlicer(t, "f", src)

	_, err := s.Parts()
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestParts_CommentsAroundSignature(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"trailing comment on def line", "def f():  # note\n    return 1\n"},
		{"comment as first body line", "def f():\n    # setup\n    return 1\n"},
		{"comment before def", "# leading\ndef f():\n    return 1\n"},
		{"comment between statements", "def f():\n    x = 1\n    # between\n    return x\n"},
		{"comment inside params", "def f(\n    x,  # arg\n):\n    return x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSlicer(t, "f", tt.src)

			parts, err := s.Parts()
			require.NoError(t, err)
			assert.NotNil(t, parts.Suite)

			codes, err := s.Codes()
			require.NoError(t, err)
			joined := codes.Decor + codes.Sig + codes.Doc + codes.Body
			assert.Contains(t, tt.src, joined)
			assert.Contains(t, joined, "return")
		})
	}
}

func TestCodes_TrailingCommentWithDocstring(t *testing.T) {
	src := "def f():  # note\n    \"\"\"Doc.\"\"\"\n    return 1\n"
	s := mustSlicer(t, "f", src)

	codes, err := s.Codes()
	require.NoError(t, err)
	assert.Equal(t, "def f():  # note\n", codes.Sig)
	assert.Contains(t, codes.Doc, "Doc.")
	assert.Equal(t, src, codes.Decor+codes.Sig+codes.Doc+codes.Body)
}

func TestRenderSignature(t *testing.T) {
	src := "def f(x) -> int:\n    return x\n"
	s := mustSlicer(t, "f", src)

	full, err := s.RenderSignature(FieldKwDef, FieldName, FieldParms, FieldArrow, FieldAnnotation, FieldColon)
	require.NoError(t, err)
	assert.Equal(t, "def f(x) -> int:", full)

	// Omitting the annotation pair builds a bare preview
	partial, err := s.RenderSignature(FieldKwDef, FieldName, FieldParms)
	require.NoError(t, err)
	assert.Equal(t, "def f(x)", partial)

	// Caller-supplied order does not matter
	reordered, err := s.RenderSignature(FieldParms, FieldKwDef, FieldName)
	require.NoError(t, err)
	assert.Equal(t, partial, reordered)
}

func TestSuite_DocAndBody(t *testing.T) {
	s := mustSlicer(t, "square", squareSrc)

	suite, err := s.Suite()
	require.NoError(t, err)
	require.NotNil(t, suite.Doc)
	require.Len(t, suite.Body, 1)

	// Docstring only: body stays nil
	s2 := mustSlicer(t, "f", "def f():\n    \"\"\"Only doc.\"\"\"\n")
	suite2, err := s2.Suite()
	require.NoError(t, err)
	assert.NotNil(t, suite2.Doc)
	assert.Nil(t, suite2.Body)
}

func TestView_BlankLinesAfterSignature(t *testing.T) {
	src := "def f():\n\n    \"\"\"Doc.\"\"\"\n    return 1\n"
	s := mustSlicer(t, "f", src)

	codes, err := s.Codes()
	require.NoError(t, err)
	// The blank line after the colon belongs to the signature fragment
	assert.Equal(t, "def f():\n\n", codes.Sig)
	assert.Contains(t, codes.Doc, "Doc.")
}
