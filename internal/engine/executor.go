package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is the outcome of a process that started. A non-zero ExitCode is a
// result, not an error.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Executor abstracts command execution for testability. It returns an error
// only when the process could not be started or was cut short by ctx.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Result, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}
