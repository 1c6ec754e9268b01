package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Script execution errors.
var (
	// ErrScriptNotFound indicates no executable script was found in the
	// search path.
	ErrScriptNotFound = errors.New("script not found")

	// ErrScriptExecution indicates the script ran but failed, timed out,
	// or could not be started. The wrapped message distinguishes the cause.
	ErrScriptExecution = errors.New("script execution failed")
)

// Executor runs installer scripts as subprocesses.
//
// The subprocess environment is replaced wholesale: scripts see PATH, HOME,
// USER, and LANG and nothing else, so credentials and session state in the
// caller's environment never leak into them.
type Executor struct {
	timeout time.Duration
	out     io.Writer
	log     *zap.Logger
}

// NewExecutor creates an executor with the given timeout. Progress and
// script output for the user are written to out.
func NewExecutor(timeout time.Duration, out io.Writer, log *zap.Logger) *Executor {
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{timeout: timeout, out: out, log: log}
}

// Execute runs args[0] with args[1:] as literal arguments. No shell is
// involved at any point.
//
// Outcomes:
//   - exit 0: success; non-empty stdout is surfaced to the user
//   - non-zero exit: error including the exit code plus stderr and stdout
//   - timeout: error naming the configured timeout
//   - spawn failure or any other fault: wrapped error
//
// Every failure wraps ErrScriptExecution; none are retried.
func (e *Executor) Execute(ctx context.Context, args []string, description, successMessage string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: empty command", ErrScriptExecution)
	}

	subEnv, err := minimalEnv()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptExecution, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	fmt.Fprintf(e.out, "%s...\n", description)
	e.log.Debug("executing script",
		zap.Strings("args", args),
		zap.Duration("timeout", e.timeout))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = subEnv
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf(
			"%w: timed out after %s; the installation may be taking longer than expected or may have hung",
			ErrScriptExecution, e.timeout)
	}

	if runErr == nil {
		fmt.Fprintln(e.out, successMessage)
		if out := strings.TrimSpace(stdout.String()); out != "" {
			fmt.Fprintf(e.out, "\nScript output:\n%s\n", out)
		}
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		msg := fmt.Sprintf("script failed with exit code %d", exitErr.ExitCode())
		if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
			msg += fmt.Sprintf("\nError output: %s", errOut)
		}
		if out := strings.TrimSpace(stdout.String()); out != "" {
			msg += fmt.Sprintf("\nStandard output: %s", out)
		}
		return fmt.Errorf("%w: %s", ErrScriptExecution, msg)
	}

	var execErr *exec.Error
	if errors.As(runErr, &execErr) || errors.Is(runErr, os.ErrNotExist) || errors.Is(runErr, os.ErrPermission) {
		return fmt.Errorf("%w: failed to start installation script: %v", ErrScriptExecution, runErr)
	}

	return fmt.Errorf("%w: unexpected error during script execution: %v", ErrScriptExecution, runErr)
}

// minimalEnv builds the four-variable replacement environment for installer
// scripts. USER is derived from the home directory name, matching what the
// installer scripts expect.
func minimalEnv() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %v", err)
	}

	return []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"HOME=" + home,
		"USER=" + filepath.Base(home),
		"LANG=en_US.UTF-8",
	}, nil
}
