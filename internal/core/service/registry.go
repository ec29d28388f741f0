package service

import (
	"fmt"
	"sync"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/exceptions"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

// RuleRegistry is the ordered catalog the engine evaluates. Registration
// order is evaluation order.
type RuleRegistry struct {
	mu    sync.RWMutex
	order []string
	rules map[string]domain.RuleDefinition
}

func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make(map[string]domain.RuleDefinition),
	}
}

// NewDefaultRegistry registers the built-in catalog followed by the
// exception hygiene checks.
func NewDefaultRegistry(settings rules.Settings) (*RuleRegistry, error) {
	r := NewRuleRegistry()
	if err := r.RegisterAll(rules.Builtin(settings)...); err != nil {
		return nil, err
	}
	if err := r.RegisterAll(exceptions.HygieneRules()...); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RuleRegistry) Register(def domain.RuleDefinition) error {
	if def.ID == "" {
		return errors.New(errors.CodeInternal, "rule id cannot be empty")
	}
	switch def.Severity {
	case domain.SeverityBlocking, domain.SeverityAdvisory:
	default:
		return errors.Newf(errors.CodeInternal, "rule '%s' has invalid severity '%s'", def.ID, def.Severity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[def.ID]; exists {
		return errors.NewUserFacing(errors.CodeRuleLoadError,
			fmt.Sprintf("rule '%s' already registered", def.ID),
			"Rename the custom rule package so its last segment does not collide with another rule.")
	}
	r.rules[def.ID] = def
	r.order = append(r.order, def.ID)
	return nil
}

func (r *RuleRegistry) RegisterAll(defs ...domain.RuleDefinition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func (r *RuleRegistry) Get(id string) (domain.RuleDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.rules[id]
	if !exists {
		return domain.RuleDefinition{}, errors.Newf(errors.CodeUnknownRule, "rule '%s' not found", id)
	}
	return def, nil
}

func (r *RuleRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rules[id]
	return ok
}

// Definitions returns a snapshot in registration order.
func (r *RuleRegistry) Definitions() []domain.RuleDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RuleDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rules[id])
	}
	return out
}

func (r *RuleRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
