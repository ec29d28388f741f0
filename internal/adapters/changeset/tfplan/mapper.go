package tfplan

import (
	"maps"

	tfjson "github.com/hashicorp/terraform-json"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

// MapPlan converts a parsed plan into the change-set model. Values that are
// only known after apply are kept as domain.Unknown.
func MapPlan(plan *tfjson.Plan) *domain.ChangeSet {
	cs := &domain.ChangeSet{
		FormatVersion:    plan.FormatVersion,
		TerraformVersion: plan.TerraformVersion,
		Changes:          make([]domain.ResourceChange, 0, len(plan.ResourceChanges)),
		ProviderConfigs:  make(map[string]domain.ProviderConfig),
	}

	for _, rc := range plan.ResourceChanges {
		if rc == nil {
			continue
		}
		cs.Changes = append(cs.Changes, mapResourceChange(rc))
	}

	if plan.Config != nil {
		for key, pc := range plan.Config.ProviderConfigs {
			if pc == nil {
				continue
			}
			cs.ProviderConfigs[key] = mapProviderConfig(key, pc)
		}
	}
	return cs
}

func mapResourceChange(rc *tfjson.ResourceChange) domain.ResourceChange {
	out := domain.ResourceChange{
		Address:      rc.Address,
		Type:         rc.Type,
		Name:         rc.Name,
		Mode:         string(rc.Mode),
		ProviderName: rc.ProviderName,
	}
	if rc.Change == nil {
		return out
	}
	for _, a := range rc.Change.Actions {
		out.Actions = append(out.Actions, domain.Action(a))
	}
	out.Before, _ = rc.Change.Before.(map[string]any)
	if after, ok := mergeUnknown(rc.Change.After, rc.Change.AfterUnknown).(map[string]any); ok {
		out.After = after
	}
	return out
}

// mapProviderConfig keeps only constant-valued expressions.
func mapProviderConfig(key string, pc *tfjson.ProviderConfig) domain.ProviderConfig {
	attrs := make(domain.Attributes)
	for name, expr := range pc.Expressions {
		if expr == nil || expr.ExpressionData == nil {
			continue
		}
		cv := expr.ConstantValue
		if cv == nil || cv == tfjson.UnknownConstantValue {
			continue
		}
		attrs[name] = cv
	}
	return domain.ProviderConfig{
		Key:        key,
		Name:       pc.Name,
		Alias:      pc.Alias,
		Attributes: attrs,
	}
}

func mergeUnknown(value, unknown any) any {
	if !containsUnknown(unknown) {
		return value
	}
	switch u := unknown.(type) {
	case bool:
		return domain.Unknown
	case map[string]any:
		obj, _ := value.(map[string]any)
		out := make(map[string]any, len(obj)+len(u))
		maps.Copy(out, obj)
		for k, uv := range u {
			if merged := mergeUnknown(obj[k], uv); merged != nil {
				out[k] = merged
			}
		}
		return out
	case []any:
		list, _ := value.([]any)
		out := make([]any, max(len(list), len(u)))
		copy(out, list)
		for i, uv := range u {
			var cur any
			if i < len(list) {
				cur = list[i]
			}
			out[i] = mergeUnknown(cur, uv)
		}
		return out
	}
	return value
}

func containsUnknown(unknown any) bool {
	switch u := unknown.(type) {
	case bool:
		return u
	case map[string]any:
		for _, v := range u {
			if containsUnknown(v) {
				return true
			}
		}
	case []any:
		for _, v := range u {
			if containsUnknown(v) {
				return true
			}
		}
	}
	return false
}
