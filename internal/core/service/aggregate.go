package service

import "github.com/olusolaa/infra-policy-gate/internal/core/domain"

// Aggregate partitions findings by severity, keeping their order. The verdict
// fails iff there is at least one blocking finding.
func Aggregate(findings []domain.Finding) domain.EvaluationResult {
	result := domain.EvaluationResult{
		Verdict:  domain.VerdictPass,
		Findings: make([]domain.Finding, 0, len(findings)),
		Blocking: []domain.Finding{},
		Advisory: []domain.Finding{},
	}
	for _, f := range findings {
		result.Findings = append(result.Findings, f)
		switch f.Severity {
		case domain.SeverityBlocking:
			result.Blocking = append(result.Blocking, f)
		default:
			result.Advisory = append(result.Advisory, f)
		}
	}
	if len(result.Blocking) > 0 {
		result.Verdict = domain.VerdictFail
	}
	return result
}
