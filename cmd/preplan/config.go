package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/preplan"
	"github.com/m-mizutani/preplan/orchestrator"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// configFileName is looked up under <repo>/.plans when --config is not given.
const configFileName = "preplan.yaml"

// fileConfig is the optional per-repository defaults file. Values here are
// overridden by flags and environment variables.
type fileConfig struct {
	Sandbox   string `yaml:"sandbox"`
	Approval  string `yaml:"approval"`
	RunRoot   string `yaml:"run_root"`
	CodexHome string `yaml:"codex_home"`
	Ghostty   *bool  `yaml:"ghostty"`
	KeepOpen  *bool  `yaml:"keep_open"`

	// dir is the directory of the loaded file; relative paths in the file
	// resolve against it.
	dir string
}

// loadFileConfig reads path. A missing file is an error only when required.
func loadFileConfig(path string, required bool) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return &fileConfig{}, nil
		}
		return nil, goerr.Wrap(err, "failed to open config file", goerr.Tag(preplan.ErrTagIO), goerr.V("path", path))
	}
	defer f.Close()

	var cfg fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.Tag(preplan.ErrTagValidation), goerr.V("path", path))
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

func repoFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "repo",
		Value: ".",
		Usage: "Repository root",
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Sources: cli.EnvVars("PREPLAN_CONFIG"),
		Usage:   "YAML defaults file (default: <repo>/.plans/preplan.yaml if present)",
	}
}

// loadRepoFileConfig loads the file named by --config, or the optional
// defaults file of the repository.
func (x *app) loadRepoFileConfig(cmd *cli.Command, repoRoot string) (*fileConfig, error) {
	if path := cmd.String("config"); path != "" {
		return loadFileConfig(absPath(path, x.env.workDir, x.env.homeDir), true)
	}
	return loadFileConfig(filepath.Join(repoRoot, preplan.PlansDirName, configFileName), false)
}

// resolveCodexHome applies --codex-home or CODEX_HOME, then the config file,
// then ~/.codex.
func (x *app) resolveCodexHome(cmd *cli.Command, fc *fileConfig) string {
	switch {
	case cmd.String("codex-home") != "":
		return absPath(cmd.String("codex-home"), x.env.workDir, x.env.homeDir)
	case fc.CodexHome != "":
		return absPath(fc.CodexHome, fc.dir, x.env.homeDir)
	default:
		return filepath.Join(x.env.homeDir, ".codex")
	}
}

// researchConfig is the fully resolved, immutable input of one research run.
type researchConfig struct {
	repoRoot  string
	name      string
	goal      string
	outputDoc string
	dryRun    bool

	runRoot   string
	codexHome string
	selfDir   string
	workDir   string
	sandbox   orchestrator.SandboxMode
	approval  orchestrator.ApprovalPolicy
	ghostty   bool
	keepOpen  bool
}

// expandHome replaces a leading "~" with home.
func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return filepath.Join(home, p[2:])
	}
	return p
}

// absPath expands "~" and anchors relative paths at base.
func absPath(p, base, home string) string {
	p = expandHome(p, home)
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}
