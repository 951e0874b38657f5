package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/brenoschmidt/pyslice/internal/config"
	"github.com/brenoschmidt/pyslice/internal/indexer"
	"github.com/brenoschmidt/pyslice/internal/walker"
)

func scanCmd() *cobra.Command {
	var rootPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Index every Python module under a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := config.LoadProjectConfig(rootPath)
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}

			w := walker.New(proj.Include, proj.Exclude)
			files, err := w.Walk(rootPath)
			if err != nil {
				return fmt.Errorf("failed to walk %s: %w", rootPath, err)
			}

			total := 0
			for _, f := range files {
				data, err := os.ReadFile(f.Path)
				if err != nil {
					log.Warn().Err(err).Str("file", f.Path).Msg("skipping unreadable file")
					continue
				}

				name := walker.ModuleName(f.RelPath)
				mod := indexer.New(indexer.Options{
					Name:           name,
					Source:         string(data),
					PrefixTopLevel: proj.Index.PrefixTopLevel,
				})
				defs, err := mod.Defs()
				if err != nil {
					log.Warn().Err(err).Str("file", f.Path).Msg("skipping unparsable module")
					continue
				}

				fmt.Printf("%s: %d definitions\n", name, len(defs))
				total += len(defs)
			}

			fmt.Printf("\n%d files, %d definitions\n", len(files), total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootPath, "path", "p", ".", "Directory to scan")

	return cmd
}
