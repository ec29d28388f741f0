package ports

import (
	"context"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

//go:generate mockery --name ChangeSetSource --output ./mocks --outpkg mocks --case underscore
type ChangeSetSource interface {
	Type() string
	Load(ctx context.Context) (*domain.ChangeSet, error)
}

// ExceptionSource returns the raw records of one tier. A tier without a
// configured document yields an empty document, not an error.
//
//go:generate mockery --name ExceptionSource --output ./mocks --outpkg mocks --case underscore
type ExceptionSource interface {
	Load(ctx context.Context, tier domain.Tier) (domain.ExceptionDocument, error)
}

//go:generate mockery --name RuleSource --output ./mocks --outpkg mocks --case underscore
type RuleSource interface {
	Type() string
	Rules(ctx context.Context) ([]domain.RuleDefinition, error)
}
