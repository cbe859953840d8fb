package main_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/preplan/orchestrator"
)

func TestLocate(t *testing.T) {
	t.Run("falls back to search path", func(t *testing.T) {
		f := newFixture(t)
		gt.Equal(t, f.run(t, nil, "locate"), 0)
		gt.Equal(t, f.stdout.String(), orchestrator.ExecutableName+"\n")
	})

	t.Run("prefers codex home over work dir", func(t *testing.T) {
		f := newFixture(t)
		home := t.TempDir()
		exe := filepath.Join(home, "bin", orchestrator.ExecutableName)
		gt.NoError(t, os.MkdirAll(filepath.Dir(exe), 0755))
		gt.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
		gt.NoError(t, os.WriteFile(filepath.Join(f.repo, orchestrator.ExecutableName), []byte("#!/bin/sh\n"), 0755))

		gt.Equal(t, f.run(t, nil, "--codex-home", home, "locate"), 0)
		gt.Equal(t, f.stdout.String(), exe+"\n")
	})

	t.Run("reads codex home from config file", func(t *testing.T) {
		f := newFixture(t)
		home := t.TempDir()
		exe := filepath.Join(home, "bin", orchestrator.ExecutableName)
		gt.NoError(t, os.MkdirAll(filepath.Dir(exe), 0755))
		gt.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))

		cfgPath := filepath.Join(f.repo, ".plans", "preplan.yaml")
		gt.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0755))
		gt.NoError(t, os.WriteFile(cfgPath, []byte("codex_home: "+home+"\n"), 0644))

		gt.Equal(t, f.run(t, nil, "locate"), 0)
		gt.Equal(t, f.stdout.String(), exe+"\n")

		runner := &fakeRunner{}
		gt.Equal(t, f.run(t, runner, "research", "--pr", "x", "--goal", "g"), 0)
		gt.A(t, runner.calls).Length(1).At(0, func(t testing.TB, cmd orchestrator.Command) {
			gt.Equal(t, cmd.Path, exe)
		})
	})

	t.Run("reads config of another repository", func(t *testing.T) {
		f := newFixture(t)
		other := t.TempDir()
		home := t.TempDir()
		exe := filepath.Join(home, "bin", orchestrator.ExecutableName)
		gt.NoError(t, os.MkdirAll(filepath.Dir(exe), 0755))
		gt.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))

		cfgPath := filepath.Join(other, "defaults.yaml")
		gt.NoError(t, os.WriteFile(cfgPath, []byte("codex_home: "+home+"\n"), 0644))

		gt.Equal(t, f.run(t, nil, "locate", "--repo", other, "--config", cfgPath), 0)
		gt.Equal(t, f.stdout.String(), exe+"\n")
	})

	t.Run("missing explicit config fails", func(t *testing.T) {
		f := newFixture(t)
		gt.Equal(t, f.run(t, nil, "locate", "--config", filepath.Join(f.repo, "nope.yaml")), 1)
		gt.Equal(t, f.stdout.Len(), 0)
	})

	t.Run("lists all candidates", func(t *testing.T) {
		f := newFixture(t)
		workExe := filepath.Join(f.repo, orchestrator.ExecutableName)
		gt.NoError(t, os.WriteFile(workExe, []byte("#!/bin/sh\n"), 0755))

		gt.Equal(t, f.run(t, nil, "locate", "--all"), 0)

		lines := strings.Split(strings.TrimSpace(f.stdout.String()), "\n")
		gt.A(t, lines).Length(4).
			At(0, func(t testing.TB, v string) {
				gt.S(t, v).Contains("missing")
				gt.S(t, v).Contains(filepath.Join(f.env.SelfDir, orchestrator.ExecutableName))
			}).
			At(1, func(t testing.TB, v string) {
				gt.S(t, v).Contains("missing")
				gt.S(t, v).Contains(filepath.Join(f.env.HomeDir, ".codex", "bin", orchestrator.ExecutableName))
			}).
			At(2, func(t testing.TB, v string) {
				gt.S(t, v).Contains("found")
				gt.S(t, v).Contains(workExe)
			}).
			At(3, func(t testing.TB, v string) {
				gt.S(t, v).Contains("deferred")
			})
	})
}
