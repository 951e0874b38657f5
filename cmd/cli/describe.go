package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brenoschmidt/pyslice/internal/config"
	"github.com/brenoschmidt/pyslice/internal/describe"
	"github.com/brenoschmidt/pyslice/internal/slicer"
)

func describeCmd() *cobra.Command {
	var (
		filePath string
		name     string
		showBody bool
		showDec  bool
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the structure of a function in a Python file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := slicer.New(slicer.Options{File: filePath, Name: name})
			if err != nil {
				return err
			}

			// Project settings override defaults, explicit flags override both
			opts := describe.DefaultOptions()
			applyProjectDefaults(&opts, filepath.Dir(filePath))
			if cmd.Flags().Changed("body") {
				opts.ShowBody = showBody
			}
			if cmd.Flags().Changed("decorators") {
				opts.ShowDecor = showDec
			}
			if cmd.Flags().Changed("quiet") {
				opts.Quiet = quiet
			}

			out, err := describe.Render(sl, opts)
			if err != nil {
				return fmt.Errorf("failed to describe %s: %w", name, err)
			}
			if out != "" {
				fmt.Println(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Python file containing the function")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Function name")
	cmd.Flags().BoolVar(&showBody, "body", false, "Include the function body")
	cmd.Flags().BoolVar(&showDec, "decorators", false, "Include decorators")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress output")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("name")

	return cmd
}

// applyProjectDefaults overlays .pyslice.yaml describe settings onto flag
// defaults. Explicit project settings win over built-in defaults.
func applyProjectDefaults(opts *describe.Options, dir string) {
	proj, err := config.LoadProjectConfig(dir)
	if err != nil {
		return
	}
	d := proj.Describe
	if d.ShowSig != nil {
		opts.ShowSig = *d.ShowSig
	}
	if d.ShowDoc != nil {
		opts.ShowDoc = *d.ShowDoc
	}
	if d.ShowDecor != nil {
		opts.ShowDecor = *d.ShowDecor
	}
	if d.ShowBody != nil {
		opts.ShowBody = *d.ShowBody
	}
	if d.Quiet != nil {
		opts.Quiet = *d.Quiet
	}
	if d.Header != nil {
		opts.Header = *d.Header
	}
}
