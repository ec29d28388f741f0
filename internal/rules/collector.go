package rules

import (
	"fmt"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

// Collector gathers the findings of one rule. It drops findings the resolver
// suppresses and exact duplicates, keeping first-emission order.
type Collector struct {
	ruleID        string
	complianceRef string
	severity      domain.Severity
	resolver      domain.ExceptionResolver
	seen          map[domain.Finding]struct{}
	findings      []domain.Finding
}

func NewCollector(def domain.RuleDefinition, resolver domain.ExceptionResolver) *Collector {
	return &Collector{
		ruleID:        def.ID,
		complianceRef: def.ComplianceRef,
		severity:      def.Severity,
		resolver:      resolver,
		seen:          make(map[domain.Finding]struct{}),
	}
}

func (c *Collector) Add(target, format string, args ...any) {
	c.AddWithSeverity(c.severity, target, fmt.Sprintf(format, args...))
}

func (c *Collector) AddWithSeverity(severity domain.Severity, target, message string) {
	f := domain.Finding{
		Severity:      severity,
		RuleID:        c.ruleID,
		ComplianceRef: c.complianceRef,
		Message:       message,
		Resource:      target,
	}
	if _, dup := c.seen[f]; dup {
		return
	}
	c.seen[f] = struct{}{}
	if c.resolver != nil && c.resolver.IsExcepted(c.ruleID, target) {
		return
	}
	c.findings = append(c.findings, f)
}

func (c *Collector) Findings() []domain.Finding {
	return c.findings
}
