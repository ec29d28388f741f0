package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/exceptions"
)

// Application runs one evaluation: load the change-set and exception tiers,
// evaluate, report, flush metrics and apply the gating mode.
type Application struct {
	ChangeSets ports.ChangeSetSource
	Exceptions ports.ExceptionSource
	Engine     ports.PolicyEngine
	Reporter   ports.Reporter
	Metrics    ports.MetricsRecorder
	Logger     ports.Logger
	Enforce    bool

	newRunID func() string
}

type Option func(*Application)

// WithRunID replaces the random run id generator.
func WithRunID(gen func() string) Option {
	return func(a *Application) {
		a.newRunID = gen
	}
}

func NewApplication(
	changeSets ports.ChangeSetSource,
	exceptionSource ports.ExceptionSource,
	engine ports.PolicyEngine,
	reporter ports.Reporter,
	recorder ports.MetricsRecorder,
	logger ports.Logger,
	enforce bool,
	opts ...Option,
) *Application {
	a := &Application{
		ChangeSets: changeSets,
		Exceptions: exceptionSource,
		Engine:     engine,
		Reporter:   reporter,
		Metrics:    recorder,
		Logger:     logger,
		Enforce:    enforce,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run returns the evaluation result even when enforce mode turns a fail
// verdict into a POLICY_VIOLATION error.
func (a *Application) Run(ctx context.Context) (*domain.EvaluationResult, error) {
	runID := a.newRunID()
	logger := a.Logger.WithFields(map[string]any{"run_id": runID})
	start := time.Now()
	logger.Infof(ctx, "Starting policy evaluation (enforce: %t)", a.Enforce)

	cs, err := a.ChangeSets.Load(ctx)
	if err != nil {
		logger.Errorf(ctx, err, "Failed to load change-set from %s source", a.ChangeSets.Type())
		return nil, err
	}

	store, err := a.loadExceptions(ctx, logger)
	if err != nil {
		return nil, err
	}

	result, err := a.Engine.Evaluate(ctx, cs, store)
	if err != nil {
		logger.Errorf(ctx, err, "Policy evaluation failed")
		return nil, err
	}

	if err := a.Reporter.Report(ctx, runID, result); err != nil {
		logger.Errorf(ctx, err, "Failed to write report")
		return result, err
	}

	if a.Metrics != nil {
		if err := a.Metrics.Flush(); err != nil {
			logger.Warnf(ctx, "Metrics were not written: %v", err)
		}
	}

	logger.Infof(ctx, "Policy evaluation finished in %s: %s (%d blocking, %d advisory)",
		time.Since(start).Round(time.Millisecond), result.Verdict, len(result.Blocking), len(result.Advisory))

	if a.Enforce && !result.Passed() {
		return result, errors.NewUserFacing(errors.CodePolicyViolation,
			fmt.Sprintf("change-set rejected: %d blocking finding(s)", len(result.Blocking)),
			"Fix the blocking findings or request a time-bound exception for them.")
	}
	return result, nil
}

func (a *Application) loadExceptions(ctx context.Context, logger ports.Logger) (*exceptions.Store, error) {
	docs := make([]domain.ExceptionDocument, 0, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		doc, err := a.Exceptions.Load(ctx, tier)
		if err != nil {
			logger.Errorf(ctx, err, "Failed to load %s exceptions", tier)
			return nil, err
		}
		docs = append(docs, doc)
	}

	store, err := exceptions.NewStore(docs...)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "Loaded %d exception records", store.Len())
	return store, nil
}
