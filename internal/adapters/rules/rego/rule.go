package rego

import (
	"context"
	"fmt"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

func (p *pack) definition() domain.RuleDefinition {
	def := domain.RuleDefinition{
		ID:            p.id,
		Description:   p.description,
		ComplianceRef: p.complianceRef,
		Domain:        p.ruleDomain,
		Severity:      p.severity,
	}
	def.Evaluate = func(ctx context.Context, cs *domain.ChangeSet, resolver domain.ExceptionResolver) []domain.Finding {
		c := rules.NewCollector(def, resolver)
		p.collect(ctx, cs, c)
		return c.Findings()
	}
	return def
}

// collect fails closed: an evaluation error is reported as a blocking
// finding against the whole change-set.
func (p *pack) collect(ctx context.Context, cs *domain.ChangeSet, c *rules.Collector) {
	doc, err := p.eval(ctx, BuildInput(cs))
	if err != nil {
		c.AddWithSeverity(domain.SeverityBlocking, domain.Wildcard,
			fmt.Sprintf("rule pack %s failed to evaluate: %v", p.path, err))
		return
	}
	for _, entry := range entries(doc[denyRule]) {
		target, msg := decodeEntry(entry)
		c.AddWithSeverity(domain.SeverityBlocking, target, msg)
	}
	for _, entry := range entries(doc[warnRule]) {
		target, msg := decodeEntry(entry)
		c.AddWithSeverity(domain.SeverityAdvisory, target, msg)
	}
}

// entries accepts the set form and a single value.
func entries(v any) []any {
	switch tv := v.(type) {
	case nil:
		return nil
	case []any:
		return tv
	default:
		return []any{tv}
	}
}

// decodeEntry reads a plain message or an object carrying msg (or message)
// and resource. A missing resource targets the whole change-set.
func decodeEntry(entry any) (target, msg string) {
	target = domain.Wildcard
	switch v := entry.(type) {
	case string:
		return target, v
	case map[string]any:
		if s, ok := v["msg"].(string); ok {
			msg = s
		} else if s, ok := v["message"].(string); ok {
			msg = s
		}
		if r, ok := v["resource"].(string); ok && r != "" {
			target = r
		}
		if msg == "" {
			msg = fmt.Sprint(v)
		}
		return target, msg
	default:
		return target, fmt.Sprint(v)
	}
}
