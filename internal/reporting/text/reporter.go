package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

const ReporterTypeText = "text"

const maxMessageLen = 160

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

var _ ports.Reporter = (*Reporter)(nil)

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	return NewReporterWithWriter(cfg, os.Stdout, logger)
}

// NewReporterWithWriter renders to w. Colour follows the global fatih/color
// setting unless cfg.NoColor forces it off.
func NewReporterWithWriter(cfg Config, w io.Writer, logger ports.Logger) (*Reporter, error) {
	if w == nil {
		return nil, errors.New(errors.CodeReportError, "report writer cannot be nil")
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	return &Reporter{
		config: cfg,
		writer: w,
		logger: logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, runID string, result *domain.EvaluationResult) error {
	if result == nil {
		return errors.New(errors.CodeReportError, "no evaluation result to report")
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)

	verdict := green("PASS")
	if !result.Passed() {
		verdict = red("FAIL")
	}

	fmt.Fprintln(tw, "Policy Evaluation Report")
	fmt.Fprintln(tw, "========================")
	fmt.Fprintf(tw, "Run ID:\t%s\n", runID)
	fmt.Fprintf(tw, "Evaluated At:\t%s\n", result.EvaluatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(tw, "Rules Evaluated:\t%d\n", result.RulesEvaluated)
	fmt.Fprintf(tw, "Verdict:\t%s\n", verdict)

	if len(result.Findings) == 0 {
		fmt.Fprintln(tw, "\nNo findings.")
		return r.flush(ctx, tw)
	}

	fmt.Fprintln(tw, "")
	fmt.Fprintln(tw, "Severity\tRule\tResource\tRef\tMessage")
	fmt.Fprintln(tw, "--------\t----\t--------\t---\t-------")

	sections := []struct {
		findings []domain.Finding
		label    string
	}{
		{result.Blocking, red("[BLOCKING]")},
		{result.Advisory, yellow("[ADVISORY]")},
	}
	for _, s := range sections {
		for _, f := range s.findings {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ref := f.ComplianceRef
			if ref == "" {
				ref = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.label, f.RuleID, f.Resource, ref, truncate(f.Message))
		}
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Blocking:\t%s\n", red(len(result.Blocking)))
	fmt.Fprintf(tw, "Advisory:\t%s\n", yellow(len(result.Advisory)))
	fmt.Fprintf(tw, "Total:\t%d\n", len(result.Findings))

	return r.flush(ctx, tw)
}

func (r *Reporter) flush(ctx context.Context, tw *tabwriter.Writer) error {
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, errors.CodeReportError, "failed to write text report")
	}
	r.logger.Debugf(ctx, "Text report written")
	return nil
}

// truncate keeps table rows readable; newlines would break the columns.
func truncate(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	if len(msg) > maxMessageLen {
		cut := maxMessageLen - 3
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		return msg[:cut] + "..."
	}
	return msg
}
