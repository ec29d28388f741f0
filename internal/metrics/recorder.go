package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

const namespace = "policy_gate"

type Config struct {
	// TextfilePath is where Flush writes the node-exporter textfile. Empty
	// disables writing; metrics are still collected.
	TextfilePath string `mapstructure:"file"`
}

// Recorder keeps evaluation metrics in a private registry.
type Recorder struct {
	path     string
	registry *prometheus.Registry

	findings    *prometheus.CounterVec
	suppressed  *prometheus.CounterVec
	duration    prometheus.Histogram
	verdict     *prometheus.GaugeVec
	rulesRun    prometheus.Gauge
	evaluations prometheus.Counter
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

func NewRecorder(cfg Config) (*Recorder, error) {
	r := &Recorder{
		path:     cfg.TextfilePath,
		registry: prometheus.NewRegistry(),

		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Findings reported, by severity and rule",
			},
			[]string{"severity", "rule"},
		),
		suppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exceptions_applied_total",
				Help:      "Findings suppressed by an active exception, by tier and rule",
			},
			[]string{"tier", "rule"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Wall time of one change-set evaluation",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		verdict: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "verdict",
				Help:      "1 for the verdict of the last evaluation, 0 otherwise",
			},
			[]string{"verdict"},
		),
		rulesRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rules_evaluated",
				Help:      "Number of rules run by the last evaluation",
			},
		),
		evaluations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Completed evaluations",
			},
		),
	}

	collectors := []prometheus.Collector{r.findings, r.suppressed, r.duration, r.verdict, r.rulesRun, r.evaluations}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, errors.CodeMetricsError, "failed to register metric collector")
		}
	}
	return r, nil
}

func (r *Recorder) ExceptionApplied(tier domain.Tier, ruleID string) {
	r.suppressed.WithLabelValues(tier.String(), ruleID).Inc()
}

func (r *Recorder) ObserveEvaluation(result *domain.EvaluationResult, duration time.Duration) {
	if result == nil {
		return
	}
	r.evaluations.Inc()
	r.duration.Observe(duration.Seconds())
	r.rulesRun.Set(float64(result.RulesEvaluated))
	for _, f := range result.Findings {
		r.findings.WithLabelValues(f.Severity.String(), f.RuleID).Inc()
	}
	for _, v := range []domain.Verdict{domain.VerdictPass, domain.VerdictFail} {
		val := 0.0
		if v == result.Verdict {
			val = 1
		}
		r.verdict.WithLabelValues(v.String()).Set(val)
	}
}

// Flush writes the registry to the configured textfile atomically.
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return errors.WrapUserFacing(err, errors.CodeMetricsError,
			fmt.Sprintf("failed to write metrics to %s", r.path),
			"Check that the metrics file directory exists and is writable.")
	}
	return nil
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
