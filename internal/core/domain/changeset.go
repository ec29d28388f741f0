package domain

import (
	"slices"
	"sort"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionNoOp   Action = "no-op"
	ActionRead   Action = "read"
)

const (
	ModeManaged = "managed"
	ModeData    = "data"
)

// ResourceChange is one proposed mutation taken from a plan document.
type ResourceChange struct {
	Address      string
	Type         string
	Name         string
	Mode         string
	ProviderName string
	Actions      []Action
	Before       map[string]any
	After        map[string]any
}

func (rc ResourceChange) HasAction(action Action) bool {
	return slices.Contains(rc.Actions, action)
}

// InScope reports whether the change creates or updates the resource.
// A replace is delete+create and therefore in scope.
func (rc ResourceChange) InScope() bool {
	return rc.HasAction(ActionCreate) || rc.HasAction(ActionUpdate)
}

// Planned reports whether the resource still exists once the change is applied.
func (rc ResourceChange) Planned() bool {
	if len(rc.Actions) == 0 {
		return false
	}
	for _, a := range rc.Actions {
		if a != ActionDelete {
			return true
		}
	}
	return false
}

func (rc ResourceChange) Attributes() Attributes {
	return Attributes(rc.After)
}

type ProviderConfig struct {
	Key        string
	Name       string
	Alias      string
	Attributes Attributes
}

func (p ProviderConfig) Target() string {
	return ProviderTargetPrefix + p.Key
}

const ProviderTargetPrefix = "provider."

type ChangeSet struct {
	FormatVersion    string
	TerraformVersion string
	Changes          []ResourceChange
	ProviderConfigs  map[string]ProviderConfig
}

// InScope returns the create/update changes in document order.
func (cs *ChangeSet) InScope() []ResourceChange {
	if cs == nil {
		return nil
	}
	out := make([]ResourceChange, 0, len(cs.Changes))
	for _, rc := range cs.Changes {
		if rc.InScope() {
			out = append(out, rc)
		}
	}
	return out
}

// InScopeOfType filters InScope to the given resource types.
func (cs *ChangeSet) InScopeOfType(types ...string) []ResourceChange {
	var out []ResourceChange
	for _, rc := range cs.InScope() {
		if slices.Contains(types, rc.Type) {
			out = append(out, rc)
		}
	}
	return out
}

// CountByType counts changes of the given type that leave the resource in place.
func (cs *ChangeSet) CountByType(resourceType string) int {
	if cs == nil {
		return 0
	}
	n := 0
	for _, rc := range cs.Changes {
		if rc.Type == resourceType && rc.Planned() {
			n++
		}
	}
	return n
}

func (cs *ChangeSet) ProviderKeys() []string {
	if cs == nil {
		return nil
	}
	keys := make([]string, 0, len(cs.ProviderConfigs))
	for k := range cs.ProviderConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
