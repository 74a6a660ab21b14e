// Package gitsource checks out one tagged release of the documentation
// corpus per conversion run. Checkouts are kept under a workspace directory
// keyed by version so repeated runs reuse them instead of recloning.
package gitsource

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/texsite/texsite/internal/errors"
)

// Client performs version checkouts into a fixed workspace directory.
type Client struct {
	workspaceDir string
	repoURL      string
	progress     io.Writer

	// ShallowDepth limits clone history when positive. Local transports do
	// not support shallow clones, so it stays off by default.
	ShallowDepth int
}

// NewClient returns a Client cloning repoURL into workspaceDir.
func NewClient(workspaceDir, repoURL string) *Client {
	return &Client{
		workspaceDir: workspaceDir,
		repoURL:      repoURL,
		progress:     io.Discard,
	}
}

// Checkout materializes the source tree for a version tag and returns its
// path. An existing checkout that still carries a doc/ directory is reused.
func (c *Client) Checkout(ctx context.Context, version string) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, version)

	if _, err := os.Stat(filepath.Join(repoPath, "doc")); err == nil {
		slog.Info("Reusing existing checkout", "version", version, "path", repoPath)
		return repoPath, nil
	}

	// A partial checkout without doc/ is useless; start over.
	if err := os.RemoveAll(repoPath); err != nil {
		return "", errors.CloneFailed(version, err)
	}

	slog.Info("Cloning source", "url", c.repoURL, "version", version, "path", repoPath)

	cloneOptions := &git.CloneOptions{
		URL:           c.repoURL,
		ReferenceName: plumbing.NewTagReferenceName(version),
		SingleBranch:  true,
		Progress:      c.progress,
	}
	if c.ShallowDepth > 0 {
		cloneOptions.Depth = c.ShallowDepth
	}

	repository, err := git.PlainCloneContext(ctx, repoPath, false, cloneOptions)
	if err != nil {
		return "", errors.CloneFailed(version, err)
	}

	if ref, err := repository.Head(); err == nil {
		slog.Info("Source cloned", "version", version, "commit", ref.Hash().String()[:8])
	}
	return repoPath, nil
}
