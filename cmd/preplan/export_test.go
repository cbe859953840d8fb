package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/preplan/orchestrator"
)

// Env is the process state handed to the CLI in tests.
type Env struct {
	HomeDir string
	WorkDir string
	SelfDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run executes the CLI with args (without the program name) and returns the
// exit code. A nil runner uses the real process runner.
func Run(ctx context.Context, env Env, runner orchestrator.Runner, args ...string) int {
	var opts []appOption
	if runner != nil {
		opts = append(opts, withRunner(runner))
	}
	a := newApp(runtimeEnv{
		homeDir: env.HomeDir,
		workDir: env.WorkDir,
		selfDir: env.SelfDir,
		stdout:  env.Stdout,
		stderr:  env.Stderr,
	}, opts...)
	return a.run(ctx, append([]string{"preplan"}, args...))
}

var (
	ExpandHome     = expandHome
	AbsPath        = absPath
	LoadFileConfig = loadFileConfig
)

type LogConfig struct {
	Level      string
	Format     string
	File       string
	Stderr     io.Writer
	IsTerminal bool
}

func NewLogger(cfg LogConfig) (*slog.Logger, io.Closer, error) {
	return newLogger(logConfig{
		level:      cfg.Level,
		format:     cfg.Format,
		file:       cfg.File,
		stderr:     cfg.Stderr,
		isTerminal: cfg.IsTerminal,
	})
}
