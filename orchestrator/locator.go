package orchestrator

import (
	"os"
	"path/filepath"
	"slices"
)

// ExecutableName is the file name of the orchestrator binary.
const ExecutableName = "codex-orchestrate"

// Tier names a step of the lookup precedence.
type Tier string

const (
	// TierSelf is a copy next to this tool's own executable, which lets a
	// repository ship its own orchestrator.
	TierSelf Tier = "self"
	// TierCodexHome is <codex home>/bin/codex-orchestrate.
	TierCodexHome Tier = "codex-home"
	// TierWorkDir is codex-orchestrate in the working directory.
	TierWorkDir Tier = "workdir"
	// TierSearchPath defers to the command search path at execution time.
	TierSearchPath Tier = "search-path"
)

// Resolver is one lookup strategy. A resolver with RequireExecutable hits only
// if Path is a regular file with an execute bit; otherwise it always hits.
type Resolver struct {
	Tier              Tier
	Path              string
	RequireExecutable bool
}

// Resolve reports the candidate path and whether it qualifies.
func (x Resolver) Resolve() (string, bool) {
	if !x.RequireExecutable {
		return x.Path, true
	}
	return x.Path, isExecutable(x.Path)
}

// LocatorConfig is resolved once at startup. Empty directories skip their
// tier.
type LocatorConfig struct {
	// SelfDir is the directory containing this tool's executable.
	SelfDir string
	// CodexHome is the expanded runtime home, e.g. ~/.codex.
	CodexHome string
	// WorkDir is the caller's working directory.
	WorkDir string
}

// Locator finds the orchestrator executable by walking its resolvers in
// order and stopping at the first hit.
type Locator struct {
	resolvers []Resolver
}

// NewLocator builds the standard precedence: self, codex home, working
// directory, then the bare name for the command search path.
func NewLocator(cfg LocatorConfig) *Locator {
	var resolvers []Resolver
	if cfg.SelfDir != "" {
		resolvers = append(resolvers, Resolver{
			Tier:              TierSelf,
			Path:              filepath.Join(cfg.SelfDir, ExecutableName),
			RequireExecutable: true,
		})
	}
	if cfg.CodexHome != "" {
		resolvers = append(resolvers, Resolver{
			Tier:              TierCodexHome,
			Path:              filepath.Join(cfg.CodexHome, "bin", ExecutableName),
			RequireExecutable: true,
		})
	}
	if cfg.WorkDir != "" {
		resolvers = append(resolvers, Resolver{
			Tier:              TierWorkDir,
			Path:              filepath.Join(cfg.WorkDir, ExecutableName),
			RequireExecutable: true,
		})
	}
	resolvers = append(resolvers, Resolver{
		Tier: TierSearchPath,
		Path: ExecutableName,
	})

	return NewLocatorWith(resolvers...)
}

// NewLocatorWith creates a Locator from an explicit resolver list.
func NewLocatorWith(resolvers ...Resolver) *Locator {
	return &Locator{resolvers: resolvers}
}

// Resolution is the outcome of Locate.
type Resolution struct {
	Tier Tier
	Path string
}

// Locate returns the first qualifying candidate. It never fails: when no
// resolver hits, the bare executable name is returned and a missing binary
// surfaces later as a launch error.
func (x *Locator) Locate() Resolution {
	for _, r := range x.resolvers {
		if path, ok := r.Resolve(); ok {
			return Resolution{Tier: r.Tier, Path: path}
		}
	}
	return Resolution{Tier: TierSearchPath, Path: ExecutableName}
}

// Candidates returns the resolvers in precedence order.
func (x *Locator) Candidates() []Resolver {
	return slices.Clone(x.resolvers)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
