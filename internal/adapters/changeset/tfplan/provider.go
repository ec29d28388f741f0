package tfplan

import (
	"context"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

const SourceTypeTFPlan = "tfplan"

type Config struct {
	FilePath string `mapstructure:"path" validate:"required"`
}

type Source struct {
	parser *planParser
	logger ports.Logger
}

var _ ports.ChangeSetSource = (*Source)(nil)

func NewSource(cfg Config, logger ports.Logger) (*Source, error) {
	if cfg.FilePath == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "plan file path is required",
			"Pass --plan or set inputs.plan in the configuration file.")
	}

	plog := logger.WithFields(map[string]any{
		"source":    SourceTypeTFPlan,
		"plan_file": cfg.FilePath,
	})

	return &Source{
		parser: newPlanParser(cfg.FilePath, plog),
		logger: plog,
	}, nil
}

func (s *Source) Type() string { return SourceTypeTFPlan }

func (s *Source) Load(ctx context.Context) (*domain.ChangeSet, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	plan, err := s.parser.parseAndCache(ctx)
	if err != nil {
		return nil, err
	}

	cs := MapPlan(plan)
	s.logger.Infof(ctx, "Loaded %d resource changes (%d in scope) and %d provider configurations",
		len(cs.Changes), len(cs.InScope()), len(cs.ProviderConfigs))
	return cs, nil
}
