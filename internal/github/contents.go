package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ContentService fetches single file contents over the GitHub REST API
type ContentService struct {
	token   string
	client  *http.Client
	baseURL string
}

// NewContentService creates a new contents client
func NewContentService(token string) *ContentService {
	return &ContentService{
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.github.com",
	}
}

// FetchFile returns the raw contents of a file at a ref. An empty ref uses
// the repository's default branch.
func (s *ContentService) FetchFile(ctx context.Context, owner, repo, path, ref string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.baseURL, owner, repo, url.PathEscape(path))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", err
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("file not found: %s/%s/%s", owner, repo, path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("github API error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

func (s *ContentService) setHeaders(req *http.Request) {
	// The raw media type skips the base64 JSON envelope
	req.Header.Set("Accept", "application/vnd.github.raw+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}
