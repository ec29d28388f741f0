package json

import (
	"context"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

const ReporterTypeJSON = "json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Compact bool `mapstructure:"compact"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

var _ ports.Reporter = (*Reporter)(nil)

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return NewReporterWithWriter(cfg, os.Stdout, logger)
}

func NewReporterWithWriter(cfg Config, w io.Writer, logger ports.Logger) (*Reporter, error) {
	if w == nil {
		return nil, errors.New(errors.CodeReportError, "report writer cannot be nil")
	}
	return &Reporter{
		config: cfg,
		writer: w,
		logger: logger,
	}, nil
}

type jsonReport struct {
	RunID          string        `json:"run_id"`
	Verdict        string        `json:"verdict"`
	EvaluatedAt    string        `json:"evaluated_at"`
	RulesEvaluated int           `json:"rules_evaluated"`
	Summary        jsonSummary   `json:"summary"`
	Findings       []jsonFinding `json:"findings"`
}

type jsonSummary struct {
	Blocking int `json:"blocking"`
	Advisory int `json:"advisory"`
	Total    int `json:"total"`
}

type jsonFinding struct {
	Severity      string `json:"severity"`
	RuleID        string `json:"rule_id"`
	ComplianceRef string `json:"compliance_ref,omitempty"`
	Message       string `json:"message"`
	Resource      string `json:"resource"`
}

func (r *Reporter) Report(ctx context.Context, runID string, result *domain.EvaluationResult) error {
	if result == nil {
		return errors.New(errors.CodeReportError, "no evaluation result to report")
	}

	report := jsonReport{
		RunID:          runID,
		Verdict:        result.Verdict.String(),
		EvaluatedAt:    result.EvaluatedAt.UTC().Format(time.RFC3339),
		RulesEvaluated: result.RulesEvaluated,
		Summary: jsonSummary{
			Blocking: len(result.Blocking),
			Advisory: len(result.Advisory),
			Total:    len(result.Findings),
		},
		Findings: make([]jsonFinding, 0, len(result.Findings)),
	}

	for _, f := range result.Findings {
		if ctx.Err() != nil {
			r.logger.Warnf(ctx, "JSON report generation cancelled.")
			return ctx.Err()
		}
		report.Findings = append(report.Findings, jsonFinding{
			Severity:      f.Severity.String(),
			RuleID:        f.RuleID,
			ComplianceRef: f.ComplianceRef,
			Message:       f.Message,
			Resource:      f.Resource,
		})
	}

	encoder := json.NewEncoder(r.writer)
	if !r.config.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(report); err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return errors.Wrap(err, errors.CodeReportError, "failed to encode JSON report")
	}

	r.logger.Debugf(ctx, "JSON report successfully generated.")
	return nil
}
