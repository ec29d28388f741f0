package text_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/service"
	"github.com/olusolaa/infra-policy-gate/internal/log"
	"github.com/olusolaa/infra-policy-gate/internal/reporting/text"
)

func render(t *testing.T, result *domain.EvaluationResult) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := text.NewReporterWithWriter(text.Config{NoColor: true}, &buf, log.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Report(context.Background(), "run-1", result))
	return buf.String()
}

func TestReporter_Failing(t *testing.T) {
	result := service.Aggregate([]domain.Finding{
		{Severity: domain.SeverityAdvisory, RuleID: "expired_exception", ComplianceRef: "CA-7",
			Message: "organization exception expired", Resource: "aws_db_instance.a"},
		{Severity: domain.SeverityBlocking, RuleID: "require_kms_encryption_rds", ComplianceRef: "SC-28",
			Message: "RDS instance uses default encryption", Resource: "aws_db_instance.a"},
	})
	result.RulesEvaluated = 24
	result.EvaluatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	out := render(t, &result)
	assert.Contains(t, out, "Run ID:")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2026-03-01T12:00:00Z")
	assert.Contains(t, out, "FAIL")
	assert.NotContains(t, out, "\x1b[")

	blocking := strings.Index(out, "[BLOCKING]")
	advisory := strings.Index(out, "[ADVISORY]")
	require.NotEqual(t, -1, blocking)
	require.NotEqual(t, -1, advisory)
	assert.Less(t, blocking, advisory)

	assert.Regexp(t, `Blocking:\s+1`, out)
	assert.Regexp(t, `Advisory:\s+1`, out)
	assert.Regexp(t, `Total:\s+2`, out)
	assert.Contains(t, out, "SC-28")
}

func TestReporter_Passing(t *testing.T) {
	result := service.Aggregate(nil)
	out := render(t, &result)
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "No findings.")
	assert.NotContains(t, out, "Summary:")
}

func TestReporter_MissingRefAndLongMessage(t *testing.T) {
	result := service.Aggregate([]domain.Finding{
		{Severity: domain.SeverityAdvisory, RuleID: "custom", Message: strings.Repeat("x", 400) + "\nsecond", Resource: "*"},
	})
	out := render(t, &result)
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "second")
	assert.Regexp(t, `custom\s+\*\s+-\s+x`, out)
}

func TestReporter_Errors(t *testing.T) {
	_, err := text.NewReporterWithWriter(text.Config{}, nil, log.NewNop())
	assert.Error(t, err)

	var buf bytes.Buffer
	r, err := text.NewReporterWithWriter(text.Config{NoColor: true}, &buf, log.NewNop())
	require.NoError(t, err)
	assert.Error(t, r.Report(context.Background(), "run-1", nil))
}
