package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodeConfigNotFound   Code = "CONFIG_NOT_FOUND"
	CodeNotImplemented   Code = "NOT_IMPLEMENTED"
	CodeTimeout          Code = "TIMEOUT_ERROR"

	// Input documents
	CodeChangeSetReadError  Code = "CHANGESET_READ_ERROR"
	CodeChangeSetParseError Code = "CHANGESET_PARSE_ERROR"
	CodeExceptionReadError  Code = "EXCEPTION_READ_ERROR"
	CodeExceptionParseError Code = "EXCEPTION_PARSE_ERROR"
	CodeRuleLoadError       Code = "RULE_LOAD_ERROR"

	// Evaluation
	CodeRuleEvaluationError Code = "RULE_EVALUATION_ERROR"
	CodeUnknownRule         Code = "UNKNOWN_RULE"
	CodePolicyViolation     Code = "POLICY_VIOLATION"
	CodeReportError         Code = "REPORT_ERROR"
	CodeMetricsError        Code = "METRICS_ERROR"
)

func (c Code) String() string {
	return string(c)
}
