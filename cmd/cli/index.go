package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brenoschmidt/pyslice/internal/indexer"
)

func indexCmd() *cobra.Command {
	var (
		filePath string
		prefix   bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index a Python module's definitions by qualified name",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
			mod := indexer.New(indexer.Options{
				Name:           name,
				Source:         string(data),
				PrefixTopLevel: prefix,
			})

			defs, err := mod.Defs()
			if err != nil {
				return fmt.Errorf("failed to index %s: %w", filePath, err)
			}

			fmt.Printf("%s: %d definitions\n\n", name, len(defs))
			for _, qname := range defs.Names() {
				entry := defs[qname]
				fmt.Printf("%-12s %s [line %d]\n",
					entry.Kind, qname, int(entry.Node.StartPoint().Row)+1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Python file to index")
	cmd.Flags().BoolVarP(&prefix, "prefix", "p", false, "Qualify top-level entries with the module name")
	cmd.MarkFlagRequired("file")

	return cmd
}
