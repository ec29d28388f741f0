package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/metrics"
)

func failingResult() *domain.EvaluationResult {
	return &domain.EvaluationResult{
		Verdict: domain.VerdictFail,
		Findings: []domain.Finding{
			{Severity: domain.SeverityBlocking, RuleID: "require_tags", Resource: "aws_s3_bucket.a"},
			{Severity: domain.SeverityBlocking, RuleID: "require_tags", Resource: "aws_s3_bucket.b"},
			{Severity: domain.SeverityAdvisory, RuleID: "expired_exception", Resource: "*"},
		},
		RulesEvaluated: 24,
	}
}

func TestRecorder_ObserveEvaluation(t *testing.T) {
	r, err := metrics.NewRecorder(metrics.Config{})
	require.NoError(t, err)

	r.ObserveEvaluation(failingResult(), 150*time.Millisecond)
	r.ExceptionApplied(domain.TierOrganization, "require_tags")
	r.ExceptionApplied(domain.TierOrganization, "require_tags")
	r.ExceptionApplied(domain.TierEnvironment, "no_public_ip")
	r.ObserveEvaluation(nil, time.Second)

	expected := `
# HELP policy_gate_findings_total Findings reported, by severity and rule
# TYPE policy_gate_findings_total counter
policy_gate_findings_total{rule="expired_exception",severity="advisory"} 1
policy_gate_findings_total{rule="require_tags",severity="blocking"} 2
# HELP policy_gate_exceptions_applied_total Findings suppressed by an active exception, by tier and rule
# TYPE policy_gate_exceptions_applied_total counter
policy_gate_exceptions_applied_total{rule="no_public_ip",tier="environment"} 1
policy_gate_exceptions_applied_total{rule="require_tags",tier="organization"} 2
# HELP policy_gate_verdict 1 for the verdict of the last evaluation, 0 otherwise
# TYPE policy_gate_verdict gauge
policy_gate_verdict{verdict="fail"} 1
policy_gate_verdict{verdict="pass"} 0
# HELP policy_gate_rules_evaluated Number of rules run by the last evaluation
# TYPE policy_gate_rules_evaluated gauge
policy_gate_rules_evaluated 24
# HELP policy_gate_evaluations_total Completed evaluations
# TYPE policy_gate_evaluations_total counter
policy_gate_evaluations_total 1
`
	err = testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected),
		"policy_gate_findings_total",
		"policy_gate_exceptions_applied_total",
		"policy_gate_verdict",
		"policy_gate_rules_evaluated",
		"policy_gate_evaluations_total",
	)
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(r.Gatherer(), "policy_gate_evaluation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_VerdictFlips(t *testing.T) {
	r, err := metrics.NewRecorder(metrics.Config{})
	require.NoError(t, err)

	r.ObserveEvaluation(failingResult(), time.Millisecond)
	r.ObserveEvaluation(&domain.EvaluationResult{Verdict: domain.VerdictPass}, time.Millisecond)

	expected := `
# HELP policy_gate_verdict 1 for the verdict of the last evaluation, 0 otherwise
# TYPE policy_gate_verdict gauge
policy_gate_verdict{verdict="fail"} 0
policy_gate_verdict{verdict="pass"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "policy_gate_verdict"))
}

func TestRecorder_Flush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy_gate.prom")
	r, err := metrics.NewRecorder(metrics.Config{TextfilePath: path})
	require.NoError(t, err)

	r.ObserveEvaluation(failingResult(), 10*time.Millisecond)
	require.NoError(t, r.Flush())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `policy_gate_findings_total{rule="require_tags",severity="blocking"} 2`)
	assert.Contains(t, string(raw), "policy_gate_evaluation_duration_seconds_count 1")
}

func TestRecorder_FlushDisabled(t *testing.T) {
	r, err := metrics.NewRecorder(metrics.Config{})
	require.NoError(t, err)
	assert.NoError(t, r.Flush())
}

func TestRecorder_FlushUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "policy_gate.prom")
	r, err := metrics.NewRecorder(metrics.Config{TextfilePath: path})
	require.NoError(t, err)

	err = r.Flush()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeMetricsError))
}
