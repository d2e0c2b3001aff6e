package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// CommandInvoker shells out to an agent CLI, e.g. `claude -p <instruction>`,
// in the monitor's target directory.
type CommandInvoker struct {
	Command    string        // binary name, e.g. "claude"
	PromptFlag string        // flag carrying the instruction, e.g. "-p"
	Bound      time.Duration // zero means DefaultTimeout
}

// NewCommandInvoker returns an invoker for the claude CLI.
func NewCommandInvoker() *CommandInvoker {
	return &CommandInvoker{Command: "claude", PromptFlag: "-p"}
}

func (c *CommandInvoker) Timeout() time.Duration {
	if c.Bound > 0 {
		return c.Bound
	}
	return DefaultTimeout
}

func (c *CommandInvoker) Invoke(ctx context.Context, instruction, dir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Command, c.PromptFlag, instruction)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return "Execution completed successfully", nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("timed out (>%s)", c.Timeout())
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return "", fmt.Errorf("'%s' command not found", c.Command)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := fmt.Sprintf("failed (returncode: %d)", exitErr.ExitCode())
		if stderr.Len() > 0 {
			msg += ": " + Truncate(stderr.String(), 200)
		}
		return "", errors.New(msg)
	}
	return "", fmt.Errorf("%T: %s", err, Truncate(err.Error(), 100))
}
