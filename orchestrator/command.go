package orchestrator

import (
	"strings"

	"github.com/m-mizutani/preplan"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// HandshakeResultsJSON asks the orchestrator to report task results as a
	// JSON document.
	HandshakeResultsJSON = "results-json"

	// MaxTasks caps the orchestrator to the single research task.
	MaxTasks = "1"
)

// ComposeInput carries everything the orchestrator invocation is derived
// from.
type ComposeInput struct {
	Paths preplan.PlanPaths
	// RepoRoot is passed as the code directory and used as working directory.
	RepoRoot string
	// RunRoot is where the orchestrator keeps run artifacts.
	RunRoot string
	// Name is the sanitized PR name; the branch is pr/<Name>.
	Name     string
	Sandbox  SandboxMode
	Approval ApprovalPolicy
	Goal     string

	// Ghostty runs the session in a new terminal window.
	Ghostty bool
	// KeepOpen keeps that window open after the session exits.
	KeepOpen bool
}

// Command is a fully composed orchestrator invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
}

// Compose builds the orchestrator invocation. Required flags come first in a
// fixed order, optional window flags follow, and the goal is always the last
// argument after "--" so it can never be parsed as a flag.
func Compose(executable string, in ComposeInput) Command {
	args := []string{
		"--plan-dir", in.Paths.PlanDir,
		"--plan-file", in.Paths.PlanFile,
		"--code-dir", in.RepoRoot,
		"--run-root", in.RunRoot,
		"--no-reuse-run",
		"--compact-run",
		"--handshake", HandshakeResultsJSON,
		"--ensure-git",
		"--baseline-commit",
		"--git-branch", preplan.BranchName(in.Name),
		"--sandbox", in.Sandbox.String(),
		"--approval", in.Approval.String(),
		"--max-tasks", MaxTasks,
	}
	if in.Ghostty {
		args = append(args, "--ghostty")
	}
	if in.KeepOpen {
		args = append(args, "--keep-open")
	}
	args = append(args, "--", in.Goal)

	return Command{
		Path: executable,
		Args: args,
		Dir:  in.RepoRoot,
	}
}

// String renders the command as a bash command line for logs and dry
// inspection.
func (x Command) String() string {
	words := make([]string, 0, len(x.Args)+1)
	for _, w := range append([]string{x.Path}, x.Args...) {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			q = w
		}
		words = append(words, q)
	}
	return strings.Join(words, " ")
}
