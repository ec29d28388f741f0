package rego

import (
	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

// BuildInput renders a change-set in the shape of the plan JSON document so
// policies written against `terraform show -json` output work unchanged.
// Unknown values are moved out of after into after_unknown.
func BuildInput(cs *domain.ChangeSet) map[string]any {
	if cs == nil {
		return map[string]any{}
	}

	changes := make([]any, 0, len(cs.Changes))
	for _, rc := range cs.Changes {
		actions := make([]any, 0, len(rc.Actions))
		for _, a := range rc.Actions {
			actions = append(actions, string(a))
		}
		after, afterUnknown := splitUnknown(rc.After)
		before, _ := splitUnknown(rc.Before)
		changes = append(changes, map[string]any{
			"address":       rc.Address,
			"type":          rc.Type,
			"name":          rc.Name,
			"mode":          rc.Mode,
			"provider_name": rc.ProviderName,
			"change": map[string]any{
				"actions":       actions,
				"before":        before,
				"after":         after,
				"after_unknown": afterUnknown,
			},
		})
	}

	providers := make(map[string]any, len(cs.ProviderConfigs))
	for _, key := range cs.ProviderKeys() {
		pc := cs.ProviderConfigs[key]
		expressions := make(map[string]any, len(pc.Attributes))
		for attr, v := range pc.Attributes {
			expressions[attr] = map[string]any{"constant_value": v}
		}
		cfg := map[string]any{
			"name":        pc.Name,
			"expressions": expressions,
		}
		if pc.Alias != "" {
			cfg["alias"] = pc.Alias
		}
		providers[key] = cfg
	}

	return map[string]any{
		"format_version":    cs.FormatVersion,
		"terraform_version": cs.TerraformVersion,
		"resource_changes":  changes,
		"configuration": map[string]any{
			"provider_config": providers,
		},
	}
}

// splitUnknown returns the known part of v and a mirror holding true where
// a value is unknown. The mirror is nil when nothing is unknown.
func splitUnknown(v any) (known, unknown any) {
	switch tv := v.(type) {
	case domain.UnknownValue:
		return nil, true
	case map[string]any:
		if tv == nil {
			return nil, nil
		}
		k := make(map[string]any, len(tv))
		u := make(map[string]any)
		for key, val := range tv {
			kv, uv := splitUnknown(val)
			if uv != nil {
				u[key] = uv
			}
			if _, isUnknown := val.(domain.UnknownValue); !isUnknown {
				k[key] = kv
			}
		}
		if len(u) == 0 {
			return k, nil
		}
		return k, u
	case domain.Attributes:
		return splitUnknown(map[string]any(tv))
	case []any:
		k := make([]any, len(tv))
		u := make([]any, len(tv))
		hasUnknown := false
		for i, val := range tv {
			kv, uv := splitUnknown(val)
			k[i] = kv
			if uv != nil {
				u[i] = uv
				hasUnknown = true
			} else {
				u[i] = false
			}
		}
		if !hasUnknown {
			return k, nil
		}
		return k, u
	default:
		return v, nil
	}
}
