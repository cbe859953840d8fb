package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/m-mizutani/preplan"
	"github.com/m-mizutani/preplan/orchestrator"
	"github.com/urfave/cli/v3"
)

func (x *app) researchCommand() *cli.Command {
	return &cli.Command{
		Name:  "research",
		Usage: "Write a single-task research plan and run the research agent",
		Flags: []cli.Flag{
			repoFlag(),
			&cli.StringFlag{
				Name:     "pr",
				Required: true,
				Usage:    "PR name (used for .plans/<PR>/ and the pr/<PR> branch)",
			},
			&cli.StringFlag{
				Name:     "goal",
				Required: true,
				Usage:    "User goal or feature request",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Research markdown path (default: .plans/<PR>/research/RESEARCH.md)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Only write the plan file; do not run the orchestrator",
			},
			&cli.BoolFlag{
				Name:  "ghostty",
				Usage: "Run the research agent in a new Ghostty window",
			},
			&cli.BoolFlag{
				Name:  "keep-open",
				Usage: "Keep the Ghostty window open after exit",
			},
			&cli.StringFlag{
				Name:    "run-root",
				Sources: cli.EnvVars("CODEX_RUN_ROOT"),
				Usage:   "Run artifacts root (default: ~/.codex/runs)",
			},
			&cli.StringFlag{
				Name:  "sandbox",
				Usage: "Sandbox mode: read-only, workspace-write, danger-full-access (default: danger-full-access)",
			},
			&cli.StringFlag{
				Name:  "approval",
				Usage: "Approval policy: untrusted, on-failure, on-request, never (default: never)",
			},
			configFlag(),
		},
		Action: x.action(func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := x.resolveResearch(cmd)
			if err != nil {
				return err
			}
			return x.research(ctx, cfg)
		}),
	}
}

// resolveResearch turns flags, environment and the optional config file into
// a researchConfig. The PR name is validated before any file is read.
func (x *app) resolveResearch(cmd *cli.Command) (*researchConfig, error) {
	if _, err := preplan.Sanitize(cmd.String("pr")); err != nil {
		return nil, err
	}

	env := x.env
	cfg := &researchConfig{
		repoRoot: absPath(cmd.String("repo"), env.workDir, env.homeDir),
		name:     cmd.String("pr"),
		goal:     cmd.String("goal"),
		dryRun:   cmd.Bool("dry-run"),
		selfDir:  env.selfDir,
		workDir:  env.workDir,
	}
	if out := cmd.String("out"); out != "" {
		cfg.outputDoc = absPath(out, env.workDir, env.homeDir)
	}

	fc, err := x.loadRepoFileConfig(cmd, cfg.repoRoot)
	if err != nil {
		return nil, err
	}

	sandbox := orchestrator.DefaultSandboxMode.String()
	if cmd.IsSet("sandbox") {
		sandbox = cmd.String("sandbox")
	} else if fc.Sandbox != "" {
		sandbox = fc.Sandbox
	}
	if cfg.sandbox, err = orchestrator.ParseSandboxMode(sandbox); err != nil {
		return nil, err
	}

	approval := orchestrator.DefaultApprovalPolicy.String()
	if cmd.IsSet("approval") {
		approval = cmd.String("approval")
	} else if fc.Approval != "" {
		approval = fc.Approval
	}
	if cfg.approval, err = orchestrator.ParseApprovalPolicy(approval); err != nil {
		return nil, err
	}

	cfg.codexHome = x.resolveCodexHome(cmd, fc)

	// A relative run root is anchored at the repository, where the
	// orchestrator runs.
	switch {
	case cmd.String("run-root") != "":
		cfg.runRoot = absPath(cmd.String("run-root"), cfg.repoRoot, env.homeDir)
	case fc.RunRoot != "":
		cfg.runRoot = absPath(fc.RunRoot, fc.dir, env.homeDir)
	default:
		cfg.runRoot = filepath.Join(env.homeDir, ".codex", "runs")
	}

	cfg.ghostty = resolveBool(cmd, "ghostty", fc.Ghostty)
	cfg.keepOpen = resolveBool(cmd, "keep-open", fc.KeepOpen)

	return cfg, nil
}

func resolveBool(cmd *cli.Command, name string, fromFile *bool) bool {
	if cmd.IsSet(name) || fromFile == nil {
		return cmd.Bool(name)
	}
	return *fromFile
}

// research writes the plan and, unless this is a dry run, dispatches the
// orchestrator and records its exit code.
func (x *app) research(ctx context.Context, cfg *researchConfig) error {
	logger := preplan.LoggerFromContext(ctx)

	plan, err := preplan.CreateResearchPlan(ctx, preplan.ResearchRequest{
		RepoRoot:  cfg.repoRoot,
		Name:      cfg.name,
		Goal:      cfg.goal,
		OutputDoc: cfg.outputDoc,
	}, preplan.NewFileWriter())
	if err != nil {
		return err
	}

	if cfg.dryRun {
		fmt.Fprintf(x.env.stdout, "Wrote research plan file: %s\n", plan.Paths.PlanFile)
		fmt.Fprintf(x.env.stdout, "Research output path: %s\n", plan.Paths.OutputDoc)
		return nil
	}

	resolved := orchestrator.NewLocator(orchestrator.LocatorConfig{
		SelfDir:   cfg.selfDir,
		CodexHome: cfg.codexHome,
		WorkDir:   cfg.workDir,
	}).Locate()
	logger.Debug("orchestrator resolved",
		slog.String("tier", string(resolved.Tier)),
		slog.String("path", resolved.Path),
	)

	command := orchestrator.Compose(resolved.Path, orchestrator.ComposeInput{
		Paths:    plan.Paths,
		RepoRoot: cfg.repoRoot,
		RunRoot:  cfg.runRoot,
		Name:     plan.Name,
		Sandbox:  cfg.sandbox,
		Approval: cfg.approval,
		Goal:     cfg.goal,
		Ghostty:  cfg.ghostty,
		KeepOpen: cfg.keepOpen,
	})

	result := x.runner.Run(ctx, command)
	if result.Err != nil {
		fmt.Fprintf(x.env.stderr, "Error: %v\n", result.Err)
	}
	x.exitCode = result.ExitCode
	return nil
}
