// Package convert turns preprocessed LaTeX into postprocessed Markdown pages.
// The heavy lifting is delegated to pandoc; this package owns the process
// plumbing around it and the per-set conversion loop.
package convert

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/texsite/texsite/internal/errors"
)

// Converter converts one LaTeX document body to Markdown. Warnings are
// advisory converter diagnostics that did not prevent output.
type Converter interface {
	Convert(ctx context.Context, latex string) (markdown string, warnings []string, err error)
}

// Pandoc runs the pandoc binary with a fixed LaTeX-to-Markdown profile.
type Pandoc struct {
	Binary  string
	Timeout time.Duration
}

// NewPandoc returns a Converter for the given binary. An empty binary name
// selects "pandoc" from PATH.
func NewPandoc(binary string, timeout time.Duration) *Pandoc {
	if binary == "" {
		binary = "pandoc"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Pandoc{Binary: binary, Timeout: timeout}
}

// Convert feeds latex to pandoc on stdin and returns the Markdown it emits.
// ATX headings and unwrapped lines keep the postprocessor's line-oriented
// passes simple.
func (p *Pandoc) Convert(ctx context.Context, latex string) (string, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Binary,
		"-f", "latex",
		"-t", "markdown",
		"--wrap=none",
		"--markdown-headings=atx",
	)
	cmd.Stdin = strings.NewReader(latex)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	var warnings []string
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		warnings = append(warnings, msg)
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", warnings, errors.Wrap(ctx.Err(), errors.CategoryPandoc, errors.SeverityError,
			"pandoc timed out")
	}
	if err != nil && stdout.Len() == 0 {
		// Pandoc sometimes exits non-zero after emitting usable output;
		// only a silent failure is fatal.
		return "", warnings, errors.Wrap(err, errors.CategoryPandoc, errors.SeverityError,
			"pandoc exited with error").WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), warnings, nil
}
