package cst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidSource(t *testing.T) {
	tree, err := Parse(context.Background(), "x = 1\n")
	require.NoError(t, err)
	assert.Equal(t, KindModule, KindOf(tree.Root()))
	assert.Equal(t, "x = 1\n", tree.Source())
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), "def f(:\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestKindOf_UnknownType(t *testing.T) {
	tree, err := Parse(context.Background(), "x = 1 + 2\n")
	require.NoError(t, err)

	stmt := tree.Root().Child(0)
	assert.Equal(t, KindExprStatement, KindOf(stmt))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestTopLevelFunctions(t *testing.T) {
	src := `import os

def first():
    pass

@deco
def second():
    pass

class C:
    def method(self):
        pass
`
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	fns := tree.TopLevelFunctions()
	require.Len(t, fns, 2)
	assert.Equal(t, "first", tree.NodeName(fns[0]))
	assert.Equal(t, "second", tree.NodeName(fns[1]))
}

func TestDecorators(t *testing.T) {
	src := `@one
@two
def f():
    pass
`
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	fns := tree.TopLevelFunctions()
	require.Len(t, fns, 1)

	decorators := Decorators(fns[0])
	require.Len(t, decorators, 2)
	assert.Equal(t, "@one", tree.Code(decorators[0]))
	assert.Equal(t, "@two", tree.Code(decorators[1]))

	// Undecorated functions have none
	tree2, err := Parse(context.Background(), "def g():\n    pass\n")
	require.NoError(t, err)
	assert.Nil(t, Decorators(tree2.TopLevelFunctions()[0]))
}

func TestLineStart(t *testing.T) {
	src := "def f():\n    return 1\n"
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	// Offset of "return": preceded only by indentation, extends to line start
	retOffset := uint32(len("def f():\n    "))
	assert.Equal(t, uint32(len("def f():\n")), tree.LineStart(retOffset))

	// Offset mid-line with text before it stays put
	parenOffset := uint32(len("def f"))
	assert.Equal(t, parenOffset, tree.LineStart(parenOffset))
}

func TestLineEnd(t *testing.T) {
	src := "x = 1\ny = 2"
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, uint32(len("x = 1\n")), tree.LineEnd(2))
	// No trailing newline: clamps to end of source
	assert.Equal(t, uint32(len(src)), tree.LineEnd(uint32(len("x = 1\ny"))))
}

func TestStringText(t *testing.T) {
	src := "def f():\n    \"\"\"Doc text.\"\"\"\n"
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	fn := tree.TopLevelFunctions()[0]
	body := fn.ChildByFieldName("body")
	require.NotNil(t, body)

	stmt := body.Child(0)
	require.Equal(t, KindExprStatement, KindOf(stmt))
	assert.Equal(t, "Doc text.", tree.StringText(stmt.Child(0)))
}

func TestStringText_EscapesRaw(t *testing.T) {
	src := "def f():\n    \"Line\\nbreak\"\n"
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	fn := tree.TopLevelFunctions()[0]
	stmt := fn.ChildByFieldName("body").Child(0)
	assert.Equal(t, `Line\nbreak`, tree.StringText(stmt.Child(0)))
}

func TestUnwrap(t *testing.T) {
	src := "@deco\ndef f():\n    pass\n"
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	wrapped := tree.Root().Child(0)
	require.Equal(t, KindDecoratedDef, KindOf(wrapped))

	def := Unwrap(wrapped)
	assert.Equal(t, KindFunctionDef, KindOf(def))

	// Non-decorated nodes pass through
	assert.Equal(t, KindFunctionDef, KindOf(Unwrap(def)))
}

func TestPrefix(t *testing.T) {
	src := "def f(x) -> int:\n    return x\n"
	tree, err := Parse(context.Background(), src)
	require.NoError(t, err)

	fn := tree.TopLevelFunctions()[0]
	// The name node's prefix is the space after the def keyword
	assert.Equal(t, " ", tree.Prefix(fn.Child(1)))
	// First child has no previous sibling and sits at line start
	assert.Equal(t, "", tree.Prefix(fn.Child(0)))
}
