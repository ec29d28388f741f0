package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/service"
)

func TestAggregate(t *testing.T) {
	advisory := domain.Finding{Severity: domain.SeverityAdvisory, RuleID: "naming_convention", Resource: "aws_instance.a"}
	blocking := domain.Finding{Severity: domain.SeverityBlocking, RuleID: "require_tags", Resource: "aws_instance.a"}

	t.Run("empty", func(t *testing.T) {
		result := service.Aggregate(nil)
		assert.Equal(t, domain.VerdictPass, result.Verdict)
		assert.Empty(t, result.Findings)
		assert.NotNil(t, result.Blocking)
		assert.NotNil(t, result.Advisory)
	})

	t.Run("advisories never fail", func(t *testing.T) {
		result := service.Aggregate([]domain.Finding{advisory, advisory})
		assert.Equal(t, domain.VerdictPass, result.Verdict)
		assert.Len(t, result.Advisory, 2)
		assert.True(t, result.Passed())
	})

	t.Run("blocking fails and order is kept", func(t *testing.T) {
		result := service.Aggregate([]domain.Finding{advisory, blocking})
		assert.Equal(t, domain.VerdictFail, result.Verdict)
		assert.Equal(t, []domain.Finding{advisory, blocking}, result.Findings)
		assert.Equal(t, []domain.Finding{blocking}, result.Blocking)
		assert.Equal(t, []domain.Finding{advisory}, result.Advisory)
		assert.False(t, result.Passed())
	})
}
