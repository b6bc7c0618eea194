// Package runner executes a single shell command and captures its output.
// The editor uses it for directory listings, which defer to the platform
// find(1) on Unix-like systems.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"

	"text-editor-server/internal/format"
)

// Result holds the outcome of one command execution. Stdout is truncated to
// the display bound; Stderr is returned as-is so failures stay diagnosable.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Run executes command through the platform shell and waits for it to
// finish. A non-zero exit status is not an error; it is reported through
// Result.ExitCode. The returned error covers only failures to start or wait
// on the process, or context cancellation.
func Run(ctx context.Context, command string) (*Result, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, err
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   format.MaybeTruncate(stdout.String()),
		Stderr:   stderr.String(),
	}, nil
}
