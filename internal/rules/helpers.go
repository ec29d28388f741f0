package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/pkg/reflectutil"
)

const awsManagedAliasPrefix = "alias/aws/"

// isTrue is false for absent, unknown and non-boolean values.
func isTrue(attrs domain.Attributes, path ...string) bool {
	b, ok := attrs.Bool(path...)
	return ok && b
}

func isFalse(attrs domain.Attributes, path ...string) bool {
	b, ok := attrs.Bool(path...)
	return ok && !b
}

// hasValue is true for non-empty values and for values known only after apply.
func hasValue(attrs domain.Attributes, path ...string) bool {
	v, ok := attrs.Get(path...)
	if !ok {
		return false
	}
	return !reflectutil.IsEmptyValue(v)
}

// hasCustomerManagedKey accepts a key id, key ARN or alias that is not an
// AWS-managed alias. A reference resolved only at apply time is accepted.
func hasCustomerManagedKey(attrs domain.Attributes, key string) bool {
	if attrs.IsUnknown(key) {
		return true
	}
	ref, ok := attrs.String(key)
	ref = strings.TrimSpace(ref)
	if !ok || ref == "" {
		return false
	}
	if arn.IsARN(ref) {
		parsed, err := arn.Parse(ref)
		if err != nil {
			return false
		}
		ref = parsed.Resource
	}
	return !strings.HasPrefix(ref, awsManagedAliasPrefix)
}

func containsFold(values []string, v string) bool {
	return slices.ContainsFunc(values, func(s string) bool {
		return strings.EqualFold(s, v)
	})
}

func describe(attrs domain.Attributes, path ...string) string {
	v, ok := attrs.Get(path...)
	if !ok {
		return "<unset>"
	}
	switch tv := v.(type) {
	case string:
		return tv
	case domain.UnknownValue:
		return tv.String()
	default:
		return fmt.Sprint(tv)
	}
}
