package rules_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/exceptions"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

var create = []domain.Action{domain.ActionCreate}

func change(address, typ string, after map[string]any) domain.ResourceChange {
	return domain.ResourceChange{Address: address, Type: typ, Mode: domain.ModeManaged, Actions: create, After: after}
}

func changeSet(changes ...domain.ResourceChange) *domain.ChangeSet {
	return &domain.ChangeSet{FormatVersion: "1.2", Changes: changes}
}

func fullTags() map[string]any {
	return map[string]any{"Name": "bmc3-app", "Owner": "platform", "Environment": "dev"}
}

func ruleByID(t *testing.T, id string) domain.RuleDefinition {
	t.Helper()
	for _, def := range rules.Builtin(rules.DefaultSettings()) {
		if def.ID == id {
			return def
		}
	}
	t.Fatalf("rule %s not in catalog", id)
	return domain.RuleDefinition{}
}

func run(t *testing.T, id string, cs *domain.ChangeSet) []domain.Finding {
	t.Helper()
	return ruleByID(t, id).Evaluate(context.Background(), cs, nil)
}

func targets(findings []domain.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Resource)
	}
	return out
}

func TestBuiltin_CatalogOrder(t *testing.T) {
	defs := rules.Builtin(rules.DefaultSettings())
	var ids []string
	for _, d := range defs {
		ids = append(ids, d.ID)
		assert.NotNil(t, d.Evaluate, d.ID)
		assert.NotEmpty(t, d.ComplianceRef, d.ID)
		assert.NotEmpty(t, d.Description, d.ID)
	}
	assert.Equal(t, []string{
		"require_tags", "allowed_regions", "naming_convention",
		"require_ebs_encryption", "require_ebs_kms_key", "require_s3_kms_encryption",
		"require_s3_encryption_config", "require_s3_public_access_block",
		"require_rds_encryption", "require_rds_kms_key", "require_rds_backup_retention",
		"require_rds_multi_az", "require_rds_private", "rds_auto_minor_version_upgrade", "rds_require_tls",
		"no_public_ip", "restrict_sensitive_ports", "no_unrestricted_all_traffic",
		"require_imdsv2", "require_instance_profile", "require_ssh_key", "asg_use_launch_template",
	}, ids)

	advisory := map[string]bool{}
	for _, d := range defs {
		if d.Severity == domain.SeverityAdvisory {
			advisory[d.ID] = true
		}
	}
	assert.Equal(t, map[string]bool{
		"naming_convention": true, "rds_auto_minor_version_upgrade": true,
		"rds_require_tls": true, "asg_use_launch_template": true,
	}, advisory)
}

func TestRequireTags(t *testing.T) {
	t.Run("missing keys", func(t *testing.T) {
		cs := changeSet(change("aws_s3_bucket.x", domain.TypeS3Bucket, map[string]any{
			"tags": map[string]any{"Name": "bmc3-x"},
		}))
		findings := run(t, rules.IDRequireTags, cs)
		require.Len(t, findings, 2)
		assert.Equal(t, "aws_s3_bucket.x is missing required tag 'Owner'", findings[0].Message)
		assert.Equal(t, "aws_s3_bucket.x is missing required tag 'Environment'", findings[1].Message)
		assert.Equal(t, domain.SeverityBlocking, findings[0].Severity)
		assert.Equal(t, "CM-8", findings[0].ComplianceRef)
	})

	t.Run("no tags", func(t *testing.T) {
		cs := changeSet(change("aws_s3_bucket.x", domain.TypeS3Bucket, map[string]any{}))
		findings := run(t, rules.IDRequireTags, cs)
		require.Len(t, findings, 3)
		for _, f := range findings {
			assert.Contains(t, f.Message, "has no tags")
		}
	})

	t.Run("tags known after apply", func(t *testing.T) {
		cs := changeSet(change("aws_s3_bucket.x", domain.TypeS3Bucket, map[string]any{"tags": domain.Unknown}))
		assert.Empty(t, run(t, rules.IDRequireTags, cs))
	})

	t.Run("null tags and empty values", func(t *testing.T) {
		cs := changeSet(
			change("aws_s3_bucket.null", domain.TypeS3Bucket, map[string]any{"tags": nil}),
			change("aws_s3_bucket.blank", domain.TypeS3Bucket, map[string]any{
				"tags": map[string]any{"Name": "bmc3-x", "Owner": " ", "Environment": nil},
			}),
		)
		findings := run(t, rules.IDRequireTags, cs)
		require.Len(t, findings, 5)
		assert.Contains(t, findings[0].Message, "has no tags")
		assert.Equal(t, "aws_s3_bucket.blank is missing required tag 'Owner'", findings[3].Message)
	})

	t.Run("not applicable", func(t *testing.T) {
		deleted := change("aws_s3_bucket.old", domain.TypeS3Bucket, nil)
		deleted.Actions = []domain.Action{domain.ActionDelete}
		cs := changeSet(
			deleted,
			change("aws_s3_bucket_policy.p", "aws_s3_bucket_policy", map[string]any{}),
			change("aws_s3_bucket.ok", domain.TypeS3Bucket, map[string]any{"tags": fullTags()}),
		)
		assert.Empty(t, run(t, rules.IDRequireTags, cs))
	})
}

func TestAllowedRegions(t *testing.T) {
	cs := changeSet(
		change("aws_s3_bucket.gov", domain.TypeS3Bucket, map[string]any{"region": "us-gov-west-1"}),
		change("aws_s3_bucket.east", domain.TypeS3Bucket, map[string]any{"region": "us-east-1"}),
		change("aws_s3_bucket.empty", domain.TypeS3Bucket, map[string]any{"region": ""}),
		change("aws_s3_bucket.none", domain.TypeS3Bucket, map[string]any{}),
	)
	cs.ProviderConfigs = map[string]domain.ProviderConfig{
		"aws":       {Key: "aws", Name: "aws", Attributes: domain.Attributes{"region": "us-gov-east-1"}},
		"aws.blank": {Key: "aws.blank", Name: "aws", Alias: "blank", Attributes: domain.Attributes{"region": ""}},
		"aws.west":  {Key: "aws.west", Name: "aws", Alias: "west", Attributes: domain.Attributes{"region": "us-west-2"}},
		"aws.var":   {Key: "aws.var", Name: "aws", Alias: "var", Attributes: domain.Attributes{}},
	}

	findings := run(t, rules.IDAllowedRegions, cs)
	assert.Equal(t, []string{"aws_s3_bucket.east", "provider.aws.blank", "provider.aws.west"}, targets(findings))
	assert.Contains(t, findings[0].Message, "'us-east-1'")
	assert.Contains(t, findings[2].Message, "provider configuration 'aws.west' uses region 'us-west-2'")
}

func TestNamingConvention(t *testing.T) {
	cs := changeSet(
		change("aws_instance.good", domain.TypeInstance, map[string]any{"tags": map[string]any{"Name": "bmc3-web"}}),
		change("aws_instance.bad", domain.TypeInstance, map[string]any{"tags": map[string]any{"Name": "web"}}),
		change("aws_instance.none", domain.TypeInstance, map[string]any{}),
	)
	findings := run(t, rules.IDNamingConvention, cs)
	require.Len(t, findings, 1)
	assert.Equal(t, "aws_instance.bad", findings[0].Resource)
	assert.Equal(t, domain.SeverityAdvisory, findings[0].Severity)
}

func TestCollector_SuppressesAndDedupes(t *testing.T) {
	store, err := exceptions.NewStore(domain.ExceptionDocument{
		Tier: domain.TierEnvironment,
		Records: []any{map[string]any{
			"rule": rules.IDRequireTags, "resource": "aws_s3_bucket.waived",
			"reason": "migration", "approved_by": "ciso", "expires": "2099-12-31",
		}},
	})
	require.NoError(t, err)
	resolver := store.ResolverAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	def := ruleByID(t, rules.IDRequireTags)
	c := rules.NewCollector(def, resolver)
	c.Add("aws_s3_bucket.waived", "suppressed")
	c.Add("aws_s3_bucket.x", "first %d", 1)
	c.Add("aws_s3_bucket.x", "first %d", 1)
	c.AddWithSeverity(domain.SeverityAdvisory, "aws_s3_bucket.x", "first 1")

	findings := c.Findings()
	require.Len(t, findings, 2)
	assert.Equal(t, domain.SeverityBlocking, findings[0].Severity)
	assert.Equal(t, domain.SeverityAdvisory, findings[1].Severity)
}
