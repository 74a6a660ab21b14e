package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary writes an executable shell script and returns its path.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pandoc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestPandocConvert_Passthrough(t *testing.T) {
	p := NewPandoc(fakeBinary(t, "cat"), time.Second)

	out, warnings, err := p.Convert(context.Background(), "# already markdown\n")
	require.NoError(t, err)
	assert.Equal(t, "# already markdown\n", out)
	assert.Empty(t, warnings)
}

func TestPandocConvert_StderrBecomesWarning(t *testing.T) {
	p := NewPandoc(fakeBinary(t, `echo "minor issue" >&2; cat`), time.Second)

	out, warnings, err := p.Convert(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "body", out)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "minor issue")
}

func TestPandocConvert_SilentFailure(t *testing.T) {
	p := NewPandoc(fakeBinary(t, `echo "boom" >&2; exit 3`), time.Second)

	_, _, err := p.Convert(context.Background(), "body")
	require.Error(t, err)
}

func TestPandocConvert_NonZeroWithOutputSucceeds(t *testing.T) {
	p := NewPandoc(fakeBinary(t, `cat; echo "late complaint" >&2; exit 1`), time.Second)

	out, warnings, err := p.Convert(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", out)
	assert.NotEmpty(t, warnings)
}

func TestNewPandoc_Defaults(t *testing.T) {
	p := NewPandoc("", 0)
	assert.Equal(t, "pandoc", p.Binary)
	assert.Equal(t, 60*time.Second, p.Timeout)
}
