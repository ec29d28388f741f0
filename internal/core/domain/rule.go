package domain

import "context"

// Predicate inspects the change-set and returns findings that the resolver
// did not suppress.
type Predicate func(ctx context.Context, cs *ChangeSet, resolver ExceptionResolver) []Finding

type RuleDefinition struct {
	ID            string
	Description   string
	ComplianceRef string
	Domain        RuleDomain
	Severity      Severity
	// Evaluate is nil for definitions whose findings the engine produces itself.
	Evaluate Predicate
}
