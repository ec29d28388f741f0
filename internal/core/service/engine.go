package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/exceptions"
)

const defaultConcurrency = 10

type Option func(*PolicyEngine)

// WithClock sets the source of the evaluation instant.
func WithClock(now func() time.Time) Option {
	return func(e *PolicyEngine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithRecorder(recorder ports.MetricsRecorder) Option {
	return func(e *PolicyEngine) {
		e.recorder = recorder
	}
}

type PolicyEngine struct {
	registry    *RuleRegistry
	logger      ports.Logger
	concurrency int
	now         func() time.Time
	recorder    ports.MetricsRecorder
}

var _ ports.PolicyEngine = (*PolicyEngine)(nil)

func NewPolicyEngine(registry *RuleRegistry, logger ports.Logger, concurrency int, opts ...Option) (*PolicyEngine, error) {
	if registry == nil {
		return nil, errors.New(errors.CodeConfigValidation, "rule registry cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	e := &PolicyEngine{
		registry:    registry,
		logger:      logger.WithFields(map[string]any{"component": "policy_engine"}),
		concurrency: concurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate runs every registered rule over cs, then appends the exception
// hygiene findings. The result is independent of scheduling: rule outputs are
// merged in registration order. Any rule failure aborts the whole evaluation.
func (e *PolicyEngine) Evaluate(ctx context.Context, cs *domain.ChangeSet, store *exceptions.Store) (*domain.EvaluationResult, error) {
	if cs == nil {
		return nil, errors.New(errors.CodeInternal, "change-set cannot be nil")
	}
	if store == nil {
		store = exceptions.Empty()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	now := e.now().UTC()
	e.logUnknownExceptionRules(ctx, store)

	resolver := &observedResolver{
		ctx:      ctx,
		inner:    store.ResolverAt(now),
		logger:   e.logger,
		recorder: e.recorder,
	}

	defs := e.registry.Definitions()
	slots := make([][]domain.Finding, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, def := range defs {
		if def.Evaluate == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := runRule(gctx, def, cs, resolver)
			if err != nil {
				return err
			}
			slots[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			e.logger.Warnf(ctx, "Policy evaluation cancelled: %v", ctx.Err())
			return nil, ctx.Err()
		}
		e.logger.Errorf(ctx, err, "policy evaluation failed")
		return nil, err
	}

	var findings []domain.Finding
	for _, out := range slots {
		findings = append(findings, out...)
	}
	findings = append(findings, exceptions.HygieneFindings(store, now)...)

	for _, f := range findings {
		if !e.registry.Has(f.RuleID) {
			return nil, errors.Newf(errors.CodeUnknownRule, "finding references unregistered rule '%s'", f.RuleID)
		}
	}

	result := Aggregate(findings)
	result.RulesEvaluated = len(defs)
	result.EvaluatedAt = now

	if e.recorder != nil {
		e.recorder.ObserveEvaluation(&result, time.Since(started))
	}
	e.logger.Infof(ctx, "Evaluated %d rules over %d changes: verdict=%s blocking=%d advisory=%d",
		result.RulesEvaluated, len(cs.Changes), result.Verdict, len(result.Blocking), len(result.Advisory))
	return &result, nil
}

// runRule converts a panicking predicate into an error so that a broken rule
// fails the run instead of silently yielding no findings.
func runRule(ctx context.Context, def domain.RuleDefinition, cs *domain.ChangeSet, resolver domain.ExceptionResolver) (out []domain.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.Newf(errors.CodeRuleEvaluationError, "rule '%s' failed: %v", def.ID, r)
		}
	}()
	return def.Evaluate(ctx, cs, resolver), nil
}

func (e *PolicyEngine) logUnknownExceptionRules(ctx context.Context, store *exceptions.Store) {
	for _, entry := range store.UnknownRules(e.registry.Has) {
		e.logger.Debugf(ctx, "Exception %s references unknown rule '%s'; it will never match", entry.Location(), entry.Rule)
	}
}

type observedResolver struct {
	ctx      context.Context
	inner    *exceptions.Resolver
	logger   ports.Logger
	recorder ports.MetricsRecorder
}

func (o *observedResolver) IsExcepted(ruleID, target string) bool {
	entry, ok := o.inner.Resolve(ruleID, target)
	if !ok {
		return false
	}
	o.logger.Debugf(o.ctx, "Suppressed %s on %s by %s exception %s (expires %s, approved by %s)",
		ruleID, target, entry.Tier, entry.Location(), entry.Expires, entry.ApprovedBy)
	if o.recorder != nil {
		o.recorder.ExceptionApplied(entry.Tier, ruleID)
	}
	return true
}
