package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

// parseRuleSettings reads "key=v1,v2;key2=v3". Empty values are dropped;
// a pair without '=' or with an empty key is an error.
func parseRuleSettings(override string) (map[string][]string, error) {
	if strings.TrimSpace(override) == "" {
		return nil, nil
	}
	parsed := make(map[string][]string)
	for _, pair := range strings.Split(override, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.SplitN(pair, "=", 2)
		key := strings.TrimSpace(parts[0])
		if len(parts) != 2 || key == "" {
			return nil, errors.NewUserFacing(errors.CodeConfigValidation,
				fmt.Sprintf("invalid rule setting override %q", pair),
				"Use the form 'key=value1,value2;other_key=value'.")
		}

		valuesRaw := strings.Split(parts[1], ",")
		values := make([]string, 0, len(valuesRaw))
		for _, v := range valuesRaw {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		parsed[key] = values
	}
	if len(parsed) == 0 {
		return nil, nil
	}
	return parsed, nil
}

// applyRuleSettings applies overrides in key order so error reporting is
// stable.
func applyRuleSettings(settings *rules.Settings, overrides map[string][]string) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := settings.Apply(k, overrides[k]); err != nil {
			return err
		}
	}
	return nil
}
