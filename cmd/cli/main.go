package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:     "pyslice",
		Short:   "pyslice - Python source slicing and indexing",
		Long:    `pyslice slices Python functions into decorators, signature, docstring and body, and indexes module definitions by qualified name.`,
		Version: version,
	}

	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(fetchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
