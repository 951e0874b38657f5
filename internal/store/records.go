package store

import (
	"github.com/brenoschmidt/pyslice/internal/cst"
	"github.com/brenoschmidt/pyslice/internal/indexer"
)

// RecordsFromIndex converts a module index into definition records ready
// for SaveModule, in sorted qualified-name order.
func RecordsFromIndex(tree *cst.Tree, idx indexer.Index) []DefinitionRecord {
	defs := make([]DefinitionRecord, 0, len(idx))
	for _, name := range idx.Names() {
		entry := idx[name]
		defs = append(defs, DefinitionRecord{
			QualifiedName: entry.Name,
			Kind:          string(entry.Kind),
			StartLine:     int(entry.Node.StartPoint().Row) + 1,
			EndLine:       int(entry.Node.EndPoint().Row) + 1,
			Source:        tree.Code(entry.Node),
		})
	}
	return defs
}
