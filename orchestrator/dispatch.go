package orchestrator

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/preplan"
)

// ErrTagLaunch marks failures to start the orchestrator process.
var ErrTagLaunch = goerr.NewTag("launch")

// Exit codes reported when the orchestrator could not be started, following
// the POSIX shell convention.
const (
	ExitCodeNotFound      = 127
	ExitCodeNotExecutable = 126
	ExitCodeLaunchFailure = 1
	exitCodeSignalBase    = 128
)

// Result is the outcome of a dispatched command. ExitCode is the child's own
// exit status whenever the child ran; Err explains launch failures and
// signal terminations.
type Result struct {
	ExitCode int
	Err      error
}

// Runner executes a composed command and waits for it.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// ExecRunner runs commands as child processes sharing the caller's standard
// streams. It does not enforce a timeout and does not kill the child when ctx
// is cancelled; both are left to the orchestrator.
type ExecRunner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// ExecRunnerOption configures ExecRunner.
type ExecRunnerOption func(*ExecRunner)

// WithStdio replaces the inherited standard streams. Mostly for tests.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewExecRunner creates an ExecRunner bound to os.Stdin, os.Stdout and
// os.Stderr.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts cmd in cmd.Dir, blocks until it exits and returns its exit
// status unchanged.
func (x *ExecRunner) Run(ctx context.Context, cmd Command) Result {
	logger := preplan.LoggerFromContext(ctx)

	c := exec.Command(cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = x.stdin
	c.Stdout = x.stdout
	c.Stderr = x.stderr

	logger.Info("launching orchestrator",
		slog.String("path", cmd.Path),
		slog.String("dir", cmd.Dir),
		slog.String("command", cmd.String()),
	)

	started := time.Now()
	err := c.Run()
	result := classify(cmd, err)

	logger.Info("orchestrator exited",
		slog.Int("exit_code", result.ExitCode),
		slog.Duration("elapsed", time.Since(started)),
	)
	if result.Err != nil {
		logger.Error("orchestrator failed", slog.Any("error", result.Err))
	}
	return result
}

func classify(cmd Command, err error) Result {
	if err == nil {
		return Result{}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return Result{
				ExitCode: exitCodeSignalBase + int(status.Signal()),
				Err: goerr.Wrap(err, "orchestrator terminated by signal",
					goerr.V("path", cmd.Path),
					goerr.V("signal", status.Signal().String())),
			}
		}
		return Result{ExitCode: exitErr.ExitCode()}
	}

	code := ExitCodeLaunchFailure
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		code = ExitCodeNotFound
	case errors.Is(err, fs.ErrPermission):
		code = ExitCodeNotExecutable
	}
	return Result{
		ExitCode: code,
		Err: goerr.Wrap(err, "failed to launch orchestrator",
			goerr.Tag(ErrTagLaunch),
			goerr.V("path", cmd.Path),
			goerr.V("dir", cmd.Dir)),
	}
}
