package preplan

import (
	"context"
	"log/slog"
)

// ResearchRequest is the input of CreateResearchPlan.
type ResearchRequest struct {
	// RepoRoot is the absolute, cleaned repository root.
	RepoRoot string
	// Name is the free-form PR name. It is sanitized before use.
	Name string
	// Goal is the user's feature request, stored verbatim.
	Goal string
	// OutputDoc optionally overrides where the research brief is written.
	// It must be absolute when set.
	OutputDoc string
}

// ResearchPlan describes the plan that was written.
type ResearchPlan struct {
	Name    string
	Branch  string
	Paths   PlanPaths
	Payload *PlanPayload
}

// CreateResearchPlan sanitizes the name, derives the plan paths, builds the
// single-task research payload and persists it with w. The name is validated
// before anything touches the filesystem.
func CreateResearchPlan(ctx context.Context, req ResearchRequest, w Writer, opts ...PayloadOption) (*ResearchPlan, error) {
	name, err := Sanitize(req.Name)
	if err != nil {
		return nil, err
	}

	paths := DerivePaths(req.RepoRoot, name, req.OutputDoc)

	rel, err := RelativeOutput(req.RepoRoot, paths.OutputDoc)
	if err != nil {
		return nil, err
	}

	payload, err := NewResearchPayload(req.Goal, rel, opts...)
	if err != nil {
		return nil, err
	}

	if err := w.Write(ctx, paths.PlanFile, payload); err != nil {
		return nil, err
	}

	LoggerFromContext(ctx).Info("research plan created",
		slog.String("name", name),
		slog.String("plan_file", paths.PlanFile),
		slog.String("output_doc", paths.OutputDoc),
	)

	return &ResearchPlan{
		Name:    name,
		Branch:  BranchName(name),
		Paths:   paths,
		Payload: payload,
	}, nil
}
