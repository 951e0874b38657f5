package cst

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind identifies the node kinds this package cares about. Tree-sitter
// reports node types as strings; mapping them once at the boundary lets the
// rest of the code match over a closed set.
type Kind string

const (
	KindModule        Kind = "module"
	KindFunctionDef   Kind = "function_definition"
	KindClassDef      Kind = "class_definition"
	KindDecoratedDef  Kind = "decorated_definition"
	KindDecorator     Kind = "decorator"
	KindImport        Kind = "import_statement"
	KindImportFrom    Kind = "import_from_statement"
	KindExprStatement Kind = "expression_statement"
	KindAssignment    Kind = "assignment"
	KindString        Kind = "string"
	KindStringContent Kind = "string_content"
	KindEscapeSeq     Kind = "escape_sequence"
	KindBlock         Kind = "block"
	KindComment       Kind = "comment"
	KindIdentifier    Kind = "identifier"
	KindDottedName    Kind = "dotted_name"
	KindAliasedImport Kind = "aliased_import"
	KindWildcard      Kind = "wildcard_import"
	KindUnknown       Kind = "unknown"
)

var known = map[string]Kind{
	string(KindModule):        KindModule,
	string(KindFunctionDef):   KindFunctionDef,
	string(KindClassDef):      KindClassDef,
	string(KindDecoratedDef):  KindDecoratedDef,
	string(KindDecorator):     KindDecorator,
	string(KindImport):        KindImport,
	string(KindImportFrom):    KindImportFrom,
	string(KindExprStatement): KindExprStatement,
	string(KindAssignment):    KindAssignment,
	string(KindString):        KindString,
	string(KindStringContent): KindStringContent,
	string(KindEscapeSeq):     KindEscapeSeq,
	string(KindBlock):         KindBlock,
	string(KindComment):       KindComment,
	string(KindIdentifier):    KindIdentifier,
	string(KindDottedName):    KindDottedName,
	string(KindAliasedImport): KindAliasedImport,
	string(KindWildcard):      KindWildcard,
}

// KindOf maps a node's tree-sitter type to a Kind
func KindOf(n *sitter.Node) Kind {
	if n == nil {
		return KindUnknown
	}
	if k, ok := known[n.Type()]; ok {
		return k
	}
	return KindUnknown
}

// IsDefinition reports whether the node is a class or function definition
func IsDefinition(n *sitter.Node) bool {
	k := KindOf(n)
	return k == KindFunctionDef || k == KindClassDef
}
