package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/preplan"
	"github.com/m-mizutani/preplan/orchestrator"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// runtimeEnv is process state captured once at startup. Commands derive
// their defaults from it instead of reading the environment themselves.
type runtimeEnv struct {
	homeDir          string
	workDir          string
	selfDir          string
	stdout           io.Writer
	stderr           io.Writer
	stderrIsTerminal bool
}

func defaultRuntime() runtimeEnv {
	env := runtimeEnv{
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		stderrIsTerminal: term.IsTerminal(int(os.Stderr.Fd())),
	}
	if home, err := os.UserHomeDir(); err == nil {
		env.homeDir = home
	}
	if wd, err := os.Getwd(); err == nil {
		env.workDir = wd
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		env.selfDir = filepath.Dir(exe)
	}
	return env
}

type app struct {
	env      runtimeEnv
	runner   orchestrator.Runner
	exitCode int
}

type appOption func(*app)

func withRunner(r orchestrator.Runner) appOption {
	return func(a *app) {
		a.runner = r
	}
}

func newApp(env runtimeEnv, opts ...appOption) *app {
	a := &app{
		env:    env,
		runner: orchestrator.NewExecRunner(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (x *app) command() *cli.Command {
	return &cli.Command{
		Name:      "preplan",
		Usage:     "Write a research plan and hand it to codex-orchestrate",
		Writer:    x.env.stdout,
		ErrWriter: x.env.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("PREPLAN_LOG_LEVEL"),
				Usage:   "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "log-format",
				Sources: cli.EnvVars("PREPLAN_LOG_FORMAT"),
				Usage:   "Log format (text, json). Default: text on a terminal, json otherwise",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Sources: cli.EnvVars("PREPLAN_LOG_FILE"),
				Usage:   "Write logs to a rotated file instead of stderr",
			},
			&cli.StringFlag{
				Name:    "codex-home",
				Sources: cli.EnvVars("CODEX_HOME"),
				Usage:   "Codex runtime home (default: ~/.codex)",
			},
		},
		Commands: []*cli.Command{
			x.researchCommand(),
			x.locateCommand(),
		},
	}
}

// run executes the CLI and returns the process exit code: the orchestrator's
// own code when it was dispatched, 1 on any other failure.
func (x *app) run(ctx context.Context, args []string) int {
	x.exitCode = 0
	if err := x.command().Run(ctx, args); err != nil {
		fmt.Fprintf(x.env.stderr, "Error: %v\n", err)
		return 1
	}
	return x.exitCode
}

// action wraps a subcommand body: it sets up logging from the global flags
// and logs any failure before run reports it on stderr.
func (x *app) action(fn cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		ctx, cleanup, err := x.setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := fn(ctx, cmd); err != nil {
			preplan.LoggerFromContext(ctx).Error("command failed", slog.Any("error", err))
			return err
		}
		return nil
	}
}

// setup builds the logger from the global flags and returns a context
// carrying it.
func (x *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, func(), error) {
	logger, closer, err := newLogger(logConfig{
		level:      cmd.String("log-level"),
		format:     cmd.String("log-format"),
		file:       cmd.String("log-file"),
		stderr:     x.env.stderr,
		isTerminal: x.env.stderrIsTerminal,
	})
	if err != nil {
		return ctx, func() {}, err
	}
	cleanup := func() {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(x.env.stderr, "Error closing log file: %v\n", err)
		}
	}
	return ctxWithRunLogger(ctx, logger), cleanup, nil
}
