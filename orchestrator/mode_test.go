package orchestrator_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/preplan"
	"github.com/m-mizutani/preplan/orchestrator"
)

func TestParseSandboxMode(t *testing.T) {
	for _, m := range orchestrator.SandboxModes() {
		got := gt.R1(orchestrator.ParseSandboxMode(m.String())).NoError(t)
		gt.Equal(t, got, m)
	}

	_, err := orchestrator.ParseSandboxMode("full")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, preplan.ErrTagValidation))

	gt.Equal(t, orchestrator.DefaultSandboxMode, orchestrator.SandboxDangerFullAccess)
	gt.A(t, orchestrator.SandboxModes()).Length(3)
}

func TestParseApprovalPolicy(t *testing.T) {
	for _, p := range orchestrator.ApprovalPolicies() {
		got := gt.R1(orchestrator.ParseApprovalPolicy(p.String())).NoError(t)
		gt.Equal(t, got, p)
	}

	_, err := orchestrator.ParseApprovalPolicy("always")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, preplan.ErrTagValidation))

	gt.Equal(t, orchestrator.DefaultApprovalPolicy, orchestrator.ApprovalNever)
	gt.A(t, orchestrator.ApprovalPolicies()).Length(4)
}
