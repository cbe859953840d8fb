package preplan

import (
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"mvdan.cc/sh/v3/syntax"
)

// TaskStatus is the lifecycle state of a plan task as understood by the
// orchestrator.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ResearchTaskID is the identifier of the single research task.
const ResearchTaskID = "task_000"

const researchTaskTitle = "Research (MCP) + repo discovery"

const researchTaskDescription = `You are the Research Agent. Your job is to collect the minimum research needed so the planner can draft 3 high-quality plan options without polluting its context.

1) Repo discovery: briefly summarize the current codebase (stack, structure, key entrypoints).
2) MCP research: use context7-mcp first, then perplexity-server as needed. Focus on best practices, edge cases, and verification approaches relevant to the goal.
3) Write a concise research brief to the required output file.

Constraints:
- Do not implement product code.
- Do not edit existing files except writing the research output.
- Keep the research brief actionable: include suggested plan phases and concrete verify commands.
`

const researchStructureCriterion = "Includes: repo summary, external research notes, risks/edge cases, and suggested verification commands."

// Task is one unit of work in a plan.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ExpectedFiles []string   `json:"expected_files"`
	Verify        []string   `json:"verify"`
	DoneCriteria  []string   `json:"done_criteria"`
	DependsOn     []string   `json:"depends_on"`
	Status        TaskStatus `json:"status"`
}

// PlanPayload is the document the orchestrator reads from the plan file.
type PlanPayload struct {
	CreatedAt time.Time `json:"created_at"`
	Goal      string    `json:"goal"`
	Tasks     []Task    `json:"tasks"`
}

type payloadConfig struct {
	now func() time.Time
}

// PayloadOption customizes payload construction.
type PayloadOption func(*payloadConfig)

// WithClock replaces time.Now as the source of created_at.
func WithClock(now func() time.Time) PayloadOption {
	return func(c *payloadConfig) {
		c.now = now
	}
}

// NewResearchPayload builds the single-task research plan. relOutputDoc must
// be the output document relative to the repository root (see
// RelativeOutput); it becomes the only expected file and the target of the
// only verify command.
func NewResearchPayload(goal, relOutputDoc string, opts ...PayloadOption) (*PlanPayload, error) {
	cfg := payloadConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	if relOutputDoc == "" || path.IsAbs(relOutputDoc) {
		return nil, goerr.Wrap(ErrAbsoluteOutput, "invalid output document", goerr.V("output", relOutputDoc))
	}

	check, err := ExistenceCheck(relOutputDoc)
	if err != nil {
		return nil, err
	}

	return &PlanPayload{
		CreatedAt: cfg.now().UTC().Truncate(time.Second),
		Goal:      goal,
		Tasks: []Task{
			{
				ID:            ResearchTaskID,
				Title:         researchTaskTitle,
				Description:   researchTaskDescription,
				ExpectedFiles: []string{relOutputDoc},
				Verify:        []string{check},
				DoneCriteria: []string{
					"Research brief exists at " + relOutputDoc,
					researchStructureCriterion,
				},
				DependsOn: []string{},
				Status:    TaskStatusPending,
			},
		},
	}, nil
}

// ExistenceCheck returns a POSIX shell command asserting that relPath exists
// as a regular file. The path is quoted only when the shell would otherwise
// split or expand it. Paths the shell printer refuses, such as ones holding
// control characters, are single-quoted verbatim; only NUL is rejected since
// no shell word can carry it.
func ExistenceCheck(relPath string) (string, error) {
	quoted, err := syntax.Quote(relPath, syntax.LangPOSIX)
	if err != nil {
		if strings.ContainsRune(relPath, 0) {
			return "", goerr.Wrap(ErrUnquotablePath, "failed to quote verify path",
				goerr.V("path", relPath),
				goerr.V("cause", err.Error()))
		}
		quoted = singleQuote(relPath)
	}
	return "test -f " + quoted, nil
}

func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
