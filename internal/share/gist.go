// Package share publishes feedback documents through the gh CLI, as a
// GitHub gist or issue.
package share

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// GHRunner executes a gh CLI command and returns its trimmed stdout.
// This abstraction allows mocking in tests.
type GHRunner func(args ...string) (string, error)

// defaultGHRunner runs gh as a real subprocess.
func defaultGHRunner(args ...string) (string, error) {
	out, err := exec.Command("gh", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("gh %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", errors.New("'gh' CLI not found — install it from https://cli.github.com/")
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GistSharer creates gists from feedback files.
type GistSharer struct {
	Runner GHRunner // if nil, uses the real gh subprocess
}

// CreateGist uploads the file at path as a gist and returns its URL.
// description defaults to one derived from the filename; gists are secret
// unless public is set.
func (g *GistSharer) CreateGist(path, description string, public bool) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", path)
	}
	if description == "" {
		description = "CLI Session Feedback - " + filepath.Base(path)
	}

	args := []string{"gist", "create", path, "--desc", description}
	if public {
		args = append(args, "--public")
	}

	runner := g.Runner
	if runner == nil {
		runner = defaultGHRunner
	}
	url, err := runner(args...)
	if err != nil {
		return "", fmt.Errorf("creating gist: %w", err)
	}
	return url, nil
}

// Gist is one entry of a gist listing.
type Gist struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	URL         string `json:"url"`
	CreatedAt   string `json:"createdAt"`
}

// ListGists returns the caller's most recent gists, newest first. limit
// defaults to 10 when zero or negative.
func (g *GistSharer) ListGists(limit int) ([]Gist, error) {
	if limit <= 0 {
		limit = 10
	}
	runner := g.Runner
	if runner == nil {
		runner = defaultGHRunner
	}
	out, err := runner("gist", "list", "--limit", strconv.Itoa(limit),
		"--json", "id,description,url,createdAt")
	if err != nil {
		return nil, fmt.Errorf("listing gists: %w", err)
	}
	var gists []Gist
	if err := json.Unmarshal([]byte(out), &gists); err != nil {
		return nil, fmt.Errorf("parsing gist listing: %w", err)
	}
	return gists, nil
}

// DeleteGist removes a gist by ID.
func (g *GistSharer) DeleteGist(id string) error {
	runner := g.Runner
	if runner == nil {
		runner = defaultGHRunner
	}
	if _, err := runner("gist", "delete", id, "--yes"); err != nil {
		return fmt.Errorf("deleting gist %s: %w", id, err)
	}
	return nil
}
