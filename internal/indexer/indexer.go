// Package indexer builds a qualified-name index of every class, function,
// import binding and simple variable assignment in a Python module.
package indexer

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/brenoschmidt/pyslice/internal/cst"
)

// EntryKind classifies an index entry by how its name was bound
type EntryKind string

const (
	KindDefinition EntryKind = "definition"
	KindImport     EntryKind = "import"
	KindVariable   EntryKind = "variable"
)

// Entry is one indexed name: the qualified name, how it was bound, and the
// syntax-tree node that binds it.
type Entry struct {
	Name string
	Kind EntryKind
	Node *sitter.Node
}

// Index maps qualified names to entries. Iterate via Names for a
// deterministic order.
type Index map[string]Entry

// Names returns the qualified names sorted lexically
func (idx Index) Names() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// merge copies src entries into idx, overwriting on collision
func (idx Index) merge(src Index) {
	for name, e := range src {
		idx[name] = e
	}
}

// Options configures a module index
type Options struct {
	// Name of the module
	Name string

	// Source is the module's full source text
	Source string

	// PrefixTopLevel qualifies top-level entries with the module name
	PrefixTopLevel bool
}

// Module indexes one module source. Like the slicer, instances are
// immutable after construction with lazily cached derived views.
type Module struct {
	name   string
	src    string
	prefix bool

	tree    *cst.Tree
	treeErr error
	treeSet bool

	defs    Index
	defsErr error
	defsSet bool

	imports    Index
	importsErr error
	importsSet bool

	vars    Index
	varsErr error
	varsSet bool

	union    Index
	unionSet bool
}

// New returns a module indexer over the given source
func New(opts Options) *Module {
	return &Module{
		name:   opts.Name,
		src:    opts.Source,
		prefix: opts.PrefixTopLevel,
	}
}

// Name returns the module name
func (m *Module) Name() string {
	return m.name
}

// Tree parses the module source on first call and caches the result
func (m *Module) Tree() (*cst.Tree, error) {
	if !m.treeSet {
		m.tree, m.treeErr = cst.Parse(context.Background(), m.src)
		m.treeSet = true
	}
	return m.tree, m.treeErr
}

func (m *Module) rootPrefix() string {
	if m.prefix {
		return m.name
	}
	return ""
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Definitions indexes every class and function definition, recursively,
// using dotted qualification for nesting. Redefinitions of the same
// qualified name silently overwrite earlier entries.
func (m *Module) Definitions() (Index, error) {
	if m.defsSet {
		return m.defs, m.defsErr
	}
	m.defsSet = true

	tree, err := m.Tree()
	if err != nil {
		m.defsErr = err
		return nil, err
	}

	idx := make(Index)
	m.collectDefs(tree, tree.Root(), m.rootPrefix(), idx)
	m.defs = idx
	return m.defs, nil
}

// collectDefs scans a scope's direct children for definitions and recurses
// into each definition's body with its qualified name as the new prefix.
func (m *Module) collectDefs(tree *cst.Tree, scope *sitter.Node, prefix string, idx Index) {
	for i := 0; i < int(scope.ChildCount()); i++ {
		def := cst.Unwrap(scope.Child(i))
		if !cst.IsDefinition(def) {
			continue
		}
		name := tree.NodeName(def)
		if name == "" {
			continue
		}
		q := qualify(prefix, name)
		idx[q] = Entry{Name: q, Kind: KindDefinition, Node: def}

		if body := def.ChildByFieldName("body"); body != nil {
			m.collectDefs(tree, body, q, idx)
		}
	}
}

// Imports indexes every name bound by an import statement, at the module
// root and inside every definition scope. Each bound alias becomes its own
// entry pointing at the import statement node.
func (m *Module) Imports() (Index, error) {
	if m.importsSet {
		return m.imports, m.importsErr
	}
	m.importsSet = true

	idx, err := m.scanScopes(func(tree *cst.Tree, scope *sitter.Node, prefix string, idx Index) {
		for _, stmt := range cst.ChildrenOfKind(scope, cst.KindImport, cst.KindImportFrom) {
			for _, name := range boundImportNames(tree, stmt) {
				q := qualify(prefix, name)
				idx[q] = Entry{Name: q, Kind: KindImport, Node: stmt}
			}
		}
	})
	if err != nil {
		m.importsErr = err
		return nil, err
	}
	m.imports = idx
	return m.imports, nil
}

// Variables indexes simple name = value assignments that are direct
// children of the module root or of a definition's body suite. Tuple,
// attribute and subscript targets are not indexed.
func (m *Module) Variables() (Index, error) {
	if m.varsSet {
		return m.vars, m.varsErr
	}
	m.varsSet = true

	idx, err := m.scanScopes(func(tree *cst.Tree, scope *sitter.Node, prefix string, idx Index) {
		for _, stmt := range cst.ChildrenOfKind(scope, cst.KindExprStatement) {
			name := assignedName(tree, stmt)
			if name == "" {
				continue
			}
			q := qualify(prefix, name)
			idx[q] = Entry{Name: q, Kind: KindVariable, Node: stmt}
		}
	})
	if err != nil {
		m.varsErr = err
		return nil, err
	}
	m.vars = idx
	return m.vars, nil
}

// Defs merges definitions, imports and variables into the union view.
// Later categories overwrite earlier ones on qualified-name collision:
// a variable shadows an import of the same name, which shadows a def.
func (m *Module) Defs() (Index, error) {
	if m.unionSet {
		return m.union, nil
	}

	defs, err := m.Definitions()
	if err != nil {
		return nil, err
	}
	imports, err := m.Imports()
	if err != nil {
		return nil, err
	}
	vars, err := m.Variables()
	if err != nil {
		return nil, err
	}

	union := make(Index, len(defs)+len(imports)+len(vars))
	union.merge(defs)
	union.merge(imports)
	union.merge(vars)

	m.union = union
	m.unionSet = true
	return m.union, nil
}

// scanScopes runs fn over the module root and every definition scope found
// by Definitions, with the matching qualification prefix.
func (m *Module) scanScopes(fn func(*cst.Tree, *sitter.Node, string, Index)) (Index, error) {
	tree, err := m.Tree()
	if err != nil {
		return nil, err
	}
	defs, err := m.Definitions()
	if err != nil {
		return nil, err
	}

	idx := make(Index)
	fn(tree, tree.Root(), m.rootPrefix(), idx)

	for _, name := range defs.Names() {
		entry := defs[name]
		body := entry.Node.ChildByFieldName("body")
		if body == nil {
			continue
		}
		fn(tree, body, entry.Name, idx)
	}

	return idx, nil
}

// boundImportNames returns the local names bound by an import statement:
// `import a.b` binds a, `import x as y` binds y, `from m import a, b as c`
// binds a and c. Wildcard imports bind nothing indexable.
func boundImportNames(tree *cst.Tree, stmt *sitter.Node) []string {
	var names []string

	switch cst.KindOf(stmt) {
	case cst.KindImport:
		for i := 0; i < int(stmt.ChildCount()); i++ {
			names = appendBound(names, tree, stmt.Child(i), false)
		}
	case cst.KindImportFrom:
		module := stmt.ChildByFieldName("module_name")
		afterImport := false
		for i := 0; i < int(stmt.ChildCount()); i++ {
			child := stmt.Child(i)
			if child.Type() == "import" {
				afterImport = true
				continue
			}
			if !afterImport || sameNode(child, module) {
				continue
			}
			names = appendBound(names, tree, child, true)
		}
	}

	return names
}

// sameNode compares nodes by span; wrapper pointers are not stable
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// appendBound extracts the bound name from a dotted_name or aliased_import
// child. For plain imports a dotted path binds its first component; for
// from-imports the imported name is bound as written.
func appendBound(names []string, tree *cst.Tree, child *sitter.Node, fromImport bool) []string {
	switch cst.KindOf(child) {
	case cst.KindDottedName:
		name := tree.Code(child)
		if !fromImport {
			name, _, _ = strings.Cut(name, ".")
		}
		if name != "" {
			names = append(names, name)
		}
	case cst.KindAliasedImport:
		if alias := child.ChildByFieldName("alias"); alias != nil {
			names = append(names, tree.Code(alias))
		}
	}
	return names
}

// assignedName returns the target name of a simple `name = value`
// assignment statement, or "" when the statement is not one.
func assignedName(tree *cst.Tree, stmt *sitter.Node) string {
	expr := stmt.Child(0)
	if cst.KindOf(expr) != cst.KindAssignment {
		return ""
	}
	left := expr.ChildByFieldName("left")
	if cst.KindOf(left) != cst.KindIdentifier {
		return ""
	}
	if expr.ChildByFieldName("right") == nil {
		return ""
	}
	return tree.Code(left)
}
