package ports

import (
	"context"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/exceptions"
)

//go:generate mockery --name PolicyEngine --output ./mocks --outpkg mocks --case underscore
type PolicyEngine interface {
	Evaluate(ctx context.Context, cs *domain.ChangeSet, store *exceptions.Store) (*domain.EvaluationResult, error)
}
