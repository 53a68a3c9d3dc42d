// Package format is the external formatter capability invoked over
// manifests a sync run rewrote.
package format

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Formatter formats the given workspace-relative paths.
type Formatter interface {
	Format(ctx context.Context, paths []string) error
}

// Command runs a configured formatter argv with the changed files
// appended, from the workspace root.
type Command struct {
	WorkspaceRoot string
	Argv          []string
}

func (c Command) Format(ctx context.Context, paths []string) error {
	if len(c.Argv) == 0 || len(paths) == 0 {
		return nil
	}
	args := append(append([]string{}, c.Argv[1:]...), paths...)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	cmd.Dir = filepath.FromSlash(c.WorkspaceRoot)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("formatter %s: %w: %s", c.Argv[0], err, out)
	}
	return nil
}

// Noop is the formatter used when none is configured.
type Noop struct{}

func (Noop) Format(context.Context, []string) error { return nil }
