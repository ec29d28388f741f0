package domain

import "time"

type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityAdvisory Severity = "advisory"
)

func (s Severity) String() string {
	return string(s)
}

type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

func (v Verdict) String() string {
	return string(v)
}

type Finding struct {
	Severity      Severity
	RuleID        string
	ComplianceRef string
	Message       string
	Resource      string
}

type EvaluationResult struct {
	Verdict        Verdict
	Findings       []Finding
	Blocking       []Finding
	Advisory       []Finding
	RulesEvaluated int
	EvaluatedAt    time.Time
}

func (r *EvaluationResult) Passed() bool {
	return r != nil && r.Verdict == VerdictPass
}
