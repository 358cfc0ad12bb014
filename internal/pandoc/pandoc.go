// Package pandoc converts DokuWiki markup to markdown by running pandoc.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/starford/dokuwiki2wikijs/internal/apperr"
)

// DefaultCommand is the converter binary looked up on PATH.
const DefaultCommand = "pandoc"

// DefaultArgs read DokuWiki from stdin and write unwrapped MultiMarkdown.
var DefaultArgs = []string{"-f", "dokuwiki", "-t", "markdown_mmd", "--wrap=none"}

// Converter runs an external markup converter. The zero Timeout means no
// deadline beyond the caller's context.
type Converter struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// New returns a Converter running command with the default pandoc arguments.
func New(command string, timeout time.Duration) *Converter {
	if command == "" {
		command = DefaultCommand
	}
	return &Converter{
		Command: command,
		Args:    DefaultArgs,
		Timeout: timeout,
	}
}

// Convert feeds src to the converter and returns its stdout. Empty output
// means pandoc choked on the input and is reported as apperr.ErrSyntax.
func (c *Converter) Convert(ctx context.Context, name string, src []byte) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return "", fmt.Errorf("pandoc: convert %s: %w", name, ctx.Err())
	}
	// A failing exit status alone is not fatal; only empty output is.
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return "", fmt.Errorf("pandoc: run %s: %w", c.Command, runErr)
	}

	if stdout.Len() == 0 {
		return "", fmt.Errorf("pandoc: no output for %s, try `%s` on it to see the error (%s): %w",
			name, c.commandLine(name), strings.TrimSpace(stderr.String()), apperr.ErrSyntax)
	}
	return stdout.String(), nil
}

func (c *Converter) commandLine(name string) string {
	return strings.Join(slices.Concat([]string{c.Command}, c.Args, []string{name}), " ")
}
