package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taggedRepo creates a local repository with a doc/ tree and one tag.
func taggedRepo(t *testing.T, tag string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	docFile := filepath.Join(dir, "doc", "guide", "guide.tex")
	require.NoError(t, os.MkdirAll(filepath.Dir(docFile), 0o755))
	require.NoError(t, os.WriteFile(docFile, []byte("\\input{src/ch1}\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)

	sig := &object.Signature{Name: "tester", Email: "tester@example.com"}
	hash, err := wt.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	_, err = repo.CreateTag(tag, hash, nil)
	require.NoError(t, err)
	return dir
}

func TestCheckout_ClonesTag(t *testing.T) {
	src := taggedRepo(t, "v25.2.0")
	c := NewClient(t.TempDir(), src)

	path, err := c.Checkout(context.Background(), "v25.2.0")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(path, "doc", "guide", "guide.tex"))
}

func TestCheckout_ReusesExisting(t *testing.T) {
	src := taggedRepo(t, "v25.2.0")
	workspace := t.TempDir()
	c := NewClient(workspace, src)

	first, err := c.Checkout(context.Background(), "v25.2.0")
	require.NoError(t, err)

	// Drop a marker; a reused checkout keeps it, a reclone would not.
	marker := filepath.Join(first, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	second, err := c.Checkout(context.Background(), "v25.2.0")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.FileExists(t, marker)
}

func TestCheckout_ReplacesPartialCheckout(t *testing.T) {
	src := taggedRepo(t, "v25.2.0")
	workspace := t.TempDir()

	// A stale directory without doc/ must not be trusted.
	stale := filepath.Join(workspace, "v25.2.0")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "junk"), []byte("x"), 0o644))

	c := NewClient(workspace, src)
	path, err := c.Checkout(context.Background(), "v25.2.0")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(path, "doc", "guide", "guide.tex"))
	assert.NoFileExists(t, filepath.Join(path, "junk"))
}

func TestCheckout_UnknownTagFails(t *testing.T) {
	src := taggedRepo(t, "v25.2.0")
	c := NewClient(t.TempDir(), src)

	_, err := c.Checkout(context.Background(), "v99.9.9")
	require.Error(t, err)
}
