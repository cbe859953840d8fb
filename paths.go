package preplan

import (
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// PlansDirName is the directory under the repository root that holds one
	// sub-directory per PR.
	PlansDirName = ".plans"

	preplanDirName   = "preplan"
	planFileName     = "research.plan.json"
	researchDirName  = "research"
	researchFileName = "RESEARCH.md"
)

// PlanPaths holds every location derived for one PR. It is computed once per
// invocation and never mutated.
type PlanPaths struct {
	// PlanDir is <repo>/.plans/<name>.
	PlanDir string
	// PlanFile is always PlanDir/preplan/research.plan.json.
	PlanFile string
	// OutputDoc is where the research agent writes its brief. Defaults to
	// PlanDir/research/RESEARCH.md.
	OutputDoc string
}

// DerivePaths computes PlanPaths from a resolved repository root and a
// sanitized name. A non-empty outputOverride is used verbatim and does not
// affect PlanDir or PlanFile. DerivePaths does not touch the filesystem.
func DerivePaths(repoRoot, name, outputOverride string) PlanPaths {
	planDir := filepath.Join(repoRoot, PlansDirName, name)

	outputDoc := outputOverride
	if outputDoc == "" {
		outputDoc = DefaultOutputDoc(planDir)
	}

	return PlanPaths{
		PlanDir:   planDir,
		PlanFile:  filepath.Join(planDir, preplanDirName, planFileName),
		OutputDoc: outputDoc,
	}
}

// DefaultOutputDoc returns the research brief location nested under planDir.
func DefaultOutputDoc(planDir string) string {
	return filepath.Join(planDir, researchDirName, researchFileName)
}

// RelativeOutput expresses outputDoc relative to repoRoot using forward
// slashes, which is the form embedded in the plan payload. Documents outside
// the repository yield a "../" path.
func RelativeOutput(repoRoot, outputDoc string) (string, error) {
	rel, err := filepath.Rel(repoRoot, outputDoc)
	if err != nil {
		return "", goerr.Wrap(err, "output document cannot be expressed relative to repository",
			goerr.Tag(ErrTagValidation),
			goerr.V("repo", repoRoot),
			goerr.V("output", outputDoc))
	}
	return filepath.ToSlash(rel), nil
}
