package orchestrator

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/preplan"
)

// SandboxMode controls the filesystem and network access granted to the
// orchestrated session.
type SandboxMode string

const (
	SandboxReadOnly         SandboxMode = "read-only"
	SandboxWorkspaceWrite   SandboxMode = "workspace-write"
	SandboxDangerFullAccess SandboxMode = "danger-full-access"
)

// DefaultSandboxMode is used when no sandbox mode is configured.
const DefaultSandboxMode = SandboxDangerFullAccess

var sandboxModes = []SandboxMode{
	SandboxReadOnly,
	SandboxWorkspaceWrite,
	SandboxDangerFullAccess,
}

// SandboxModes returns every accepted sandbox mode.
func SandboxModes() []SandboxMode {
	return slices.Clone(sandboxModes)
}

func (x SandboxMode) String() string {
	return string(x)
}

// ParseSandboxMode validates s against the accepted sandbox modes.
func ParseSandboxMode(s string) (SandboxMode, error) {
	m := SandboxMode(s)
	if !slices.Contains(sandboxModes, m) {
		return "", goerr.New("unknown sandbox mode",
			goerr.Tag(preplan.ErrTagValidation),
			goerr.V("sandbox", s),
			goerr.V("accepted", sandboxModes))
	}
	return m, nil
}

// ApprovalPolicy controls how much human confirmation the orchestrated
// session asks for.
type ApprovalPolicy string

const (
	ApprovalUntrusted ApprovalPolicy = "untrusted"
	ApprovalOnFailure ApprovalPolicy = "on-failure"
	ApprovalOnRequest ApprovalPolicy = "on-request"
	ApprovalNever     ApprovalPolicy = "never"
)

// DefaultApprovalPolicy is used when no approval policy is configured.
const DefaultApprovalPolicy = ApprovalNever

var approvalPolicies = []ApprovalPolicy{
	ApprovalUntrusted,
	ApprovalOnFailure,
	ApprovalOnRequest,
	ApprovalNever,
}

// ApprovalPolicies returns every accepted approval policy.
func ApprovalPolicies() []ApprovalPolicy {
	return slices.Clone(approvalPolicies)
}

func (x ApprovalPolicy) String() string {
	return string(x)
}

// ParseApprovalPolicy validates s against the accepted approval policies.
func ParseApprovalPolicy(s string) (ApprovalPolicy, error) {
	p := ApprovalPolicy(s)
	if !slices.Contains(approvalPolicies, p) {
		return "", goerr.New("unknown approval policy",
			goerr.Tag(preplan.ErrTagValidation),
			goerr.V("approval", s),
			goerr.V("accepted", approvalPolicies))
	}
	return p, nil
}
