package exceptions

import (
	"fmt"
	"time"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

const (
	RuleExpiredException = "expired_exception"
	RuleInvalidException = "invalid_exception"

	hygieneComplianceRef = "CA-7"
)

// HygieneRules describes the store checks so they appear in the catalog.
// Their findings are produced by HygieneFindings, not by a predicate.
func HygieneRules() []domain.RuleDefinition {
	return []domain.RuleDefinition{
		{
			ID:            RuleExpiredException,
			Description:   "Exception records past their expiry date must be renewed or removed",
			ComplianceRef: hygieneComplianceRef,
			Domain:        domain.DomainGeneral,
			Severity:      domain.SeverityAdvisory,
		},
		{
			ID:            RuleInvalidException,
			Description:   "Exception records must be well formed to take effect",
			ComplianceRef: hygieneComplianceRef,
			Domain:        domain.DomainGeneral,
			Severity:      domain.SeverityAdvisory,
		},
	}
}

// HygieneFindings reports expired records first and malformed records second,
// each group in tier then document order.
func HygieneFindings(store *Store, now time.Time) []domain.Finding {
	entries := store.Entries()
	now = now.UTC()
	var out []domain.Finding

	for _, e := range entries {
		if !e.ExpiredAt(now) {
			continue
		}
		approver := e.ApprovedBy
		if approver == "" {
			approver = "unknown"
		}
		out = append(out, domain.Finding{
			Severity:      domain.SeverityAdvisory,
			RuleID:        RuleExpiredException,
			ComplianceRef: hygieneComplianceRef,
			Message: fmt.Sprintf("%s exception for rule '%s' on '%s' expired on %s (approved by %s); it no longer suppresses findings",
				e.Tier, e.Rule, e.Resource, e.Expires, approver),
			Resource: e.Resource,
		})
	}

	for _, e := range entries {
		if e.Valid() {
			continue
		}
		target := e.Resource
		if target == "" {
			target = domain.Wildcard
		}
		out = append(out, domain.Finding{
			Severity:      domain.SeverityAdvisory,
			RuleID:        RuleInvalidException,
			ComplianceRef: hygieneComplianceRef,
			Message: fmt.Sprintf("%s exception record %s is malformed and is ignored: %s",
				e.Tier, e.Location(), e.Problem),
			Resource: target,
		})
	}
	return out
}
