package ports

import (
	"context"
	"time"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

//go:generate mockery --name Reporter --output ./mocks --outpkg mocks --case underscore
type Reporter interface {
	Report(ctx context.Context, runID string, result *domain.EvaluationResult) error
}

//go:generate mockery --name MetricsRecorder --output ./mocks --outpkg mocks --case underscore
type MetricsRecorder interface {
	ExceptionApplied(tier domain.Tier, ruleID string)
	ObserveEvaluation(result *domain.EvaluationResult, duration time.Duration)
	Flush() error
}
