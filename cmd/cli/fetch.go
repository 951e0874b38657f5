package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brenoschmidt/pyslice/internal/config"
	"github.com/brenoschmidt/pyslice/internal/github"
)

func fetchCmd() *cobra.Command {
	var repoURL string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a GitHub repository into the local work directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			info, err := github.ParseRepoURL(repoURL)
			if err != nil {
				return err
			}

			svc := github.NewRepoService(cfg.WorkDir, cfg.GitHubToken)
			result, err := svc.Fetch(context.Background(), info)
			if err != nil {
				return fmt.Errorf("failed to fetch %s/%s: %w", info.Owner, info.Name, err)
			}

			fmt.Printf("Fetched %s/%s\n", info.Owner, info.Name)
			fmt.Printf("Path:   %s\n", result.Path)
			fmt.Printf("Branch: %s\n", result.Branch)
			fmt.Printf("Commit: %s\n", result.CommitSHA)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoURL, "repo", "r", "", "GitHub repository URL")
	cmd.MarkFlagRequired("repo")

	return cmd
}
