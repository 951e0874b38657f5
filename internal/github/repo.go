// Package github fetches repositories and file contents to index.
package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"
)

// RepoService clones GitHub repositories into a local working directory
type RepoService struct {
	baseDir string
	token   string
}

// NewRepoService creates a new repository service
func NewRepoService(baseDir, token string) *RepoService {
	return &RepoService{
		baseDir: baseDir,
		token:   token,
	}
}

// RepoInfo contains parsed repository information
type RepoInfo struct {
	Owner    string
	Name     string
	URL      string
	CloneURL string
	Branch   string
}

// FetchResult describes a fetched working copy
type FetchResult struct {
	Path      string
	CommitSHA string
	Branch    string
}

// ParseRepoURL parses a GitHub URL and returns repo info
func ParseRepoURL(rawURL string) (*RepoInfo, error) {
	// Handle git@github.com:owner/repo.git format
	if strings.HasPrefix(rawURL, "git@") {
		parts := strings.Split(rawURL, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid SSH URL format: %s", rawURL)
		}
		pathParts := strings.Split(strings.TrimSuffix(parts[1], ".git"), "/")
		if len(pathParts) != 2 {
			return nil, fmt.Errorf("invalid repo path: %s", parts[1])
		}
		return &RepoInfo{
			Owner:    pathParts[0],
			Name:     pathParts[1],
			URL:      rawURL,
			CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", pathParts[0], pathParts[1]),
			Branch:   "main",
		}, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Host != "github.com" {
		return nil, fmt.Errorf("only github.com URLs are supported, got: %s", parsed.Host)
	}

	pathParts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(pathParts) < 2 {
		return nil, fmt.Errorf("invalid repo path: %s", parsed.Path)
	}

	owner := pathParts[0]
	name := strings.TrimSuffix(pathParts[1], ".git")

	return &RepoInfo{
		Owner:    owner,
		Name:     name,
		URL:      rawURL,
		CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", owner, name),
		Branch:   "main",
	}, nil
}

// Fetch produces an up-to-date working copy of a repository: a shallow
// clone when absent, a pull when already present.
func (s *RepoService) Fetch(ctx context.Context, info *RepoInfo) (*FetchResult, error) {
	repoDir := filepath.Join(s.baseDir, info.Owner, info.Name)

	if _, err := os.Stat(filepath.Join(repoDir, ".git")); err == nil {
		return s.pull(ctx, repoDir)
	}
	return s.clone(ctx, info, repoDir)
}

func (s *RepoService) clone(ctx context.Context, info *RepoInfo, repoDir string) (*FetchResult, error) {
	if err := os.MkdirAll(filepath.Dir(repoDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	log.Info().
		Str("url", info.CloneURL).
		Str("path", repoDir).
		Msg("cloning repository")

	cloneOpts := &git.CloneOptions{
		URL:   info.CloneURL,
		Depth: 1,
	}
	if s.token != "" {
		cloneOpts.Auth = &http.BasicAuth{
			Username: "git",
			Password: s.token,
		}
	}
	if info.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(info.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
	if err != nil {
		// Fall back to the default branch when the requested one is absent
		if strings.Contains(err.Error(), "reference not found") && info.Branch != "" {
			log.Debug().Str("branch", info.Branch).Msg("branch not found, trying default")
			cloneOpts.ReferenceName = ""
			cloneOpts.SingleBranch = false
			repo, err = git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to clone: %w", err)
		}
	}

	return headResult(repo, repoDir)
}

func (s *RepoService) pull(ctx context.Context, repoDir string) (*FetchResult, error) {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	pullOpts := &git.PullOptions{}
	if s.token != "" {
		pullOpts.Auth = &http.BasicAuth{
			Username: "git",
			Password: s.token,
		}
	}

	err = worktree.PullContext(ctx, pullOpts)
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("failed to pull: %w", err)
	}

	return headResult(repo, repoDir)
}

func headResult(repo *git.Repository, repoDir string) (*FetchResult, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	return &FetchResult{
		Path:      repoDir,
		CommitSHA: head.Hash().String(),
		Branch:    head.Name().Short(),
	}, nil
}
