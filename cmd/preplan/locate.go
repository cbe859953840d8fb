package main

import (
	"context"
	"fmt"

	"github.com/m-mizutani/preplan/orchestrator"
	"github.com/urfave/cli/v3"
)

func (x *app) locateCommand() *cli.Command {
	return &cli.Command{
		Name:  "locate",
		Usage: "Show which codex-orchestrate executable research would run",
		Flags: []cli.Flag{
			repoFlag(),
			configFlag(),
			&cli.BoolFlag{
				Name:  "all",
				Usage: "List every candidate in precedence order",
			},
		},
		Action: x.action(func(ctx context.Context, cmd *cli.Command) error {
			repoRoot := absPath(cmd.String("repo"), x.env.workDir, x.env.homeDir)
			fc, err := x.loadRepoFileConfig(cmd, repoRoot)
			if err != nil {
				return err
			}

			loc := orchestrator.NewLocator(orchestrator.LocatorConfig{
				SelfDir:   x.env.selfDir,
				CodexHome: x.resolveCodexHome(cmd, fc),
				WorkDir:   x.env.workDir,
			})

			if !cmd.Bool("all") {
				fmt.Fprintln(x.env.stdout, loc.Locate().Path)
				return nil
			}

			for _, c := range loc.Candidates() {
				status := "missing"
				if _, ok := c.Resolve(); ok {
					status = "found"
					if !c.RequireExecutable {
						status = "deferred"
					}
				}
				fmt.Fprintf(x.env.stdout, "%-12s %-9s %s\n", c.Tier, status, c.Path)
			}
			return nil
		}),
	}
}
