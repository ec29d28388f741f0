package rules

import (
	"context"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

const (
	IDRequireTags               = "require_tags"
	IDAllowedRegions            = "allowed_regions"
	IDNamingConvention          = "naming_convention"
	IDRequireEBSEncryption      = "require_ebs_encryption"
	IDRequireEBSKMSKey          = "require_ebs_kms_key"
	IDRequireS3KMSEncryption    = "require_s3_kms_encryption"
	IDRequireS3EncryptionConfig = "require_s3_encryption_config"
	IDRequireS3PublicAccess     = "require_s3_public_access_block"
	IDRequireRDSEncryption      = "require_rds_encryption"
	IDRequireRDSKMSKey          = "require_rds_kms_key"
	IDRequireRDSBackupRetention = "require_rds_backup_retention"
	IDRequireRDSMultiAZ         = "require_rds_multi_az"
	IDRequireRDSPrivate         = "require_rds_private"
	IDRDSAutoMinorUpgrade       = "rds_auto_minor_version_upgrade"
	IDRDSRequireTLS             = "rds_require_tls"
	IDNoPublicIP                = "no_public_ip"
	IDRestrictSensitivePorts    = "restrict_sensitive_ports"
	IDNoUnrestrictedAllTraffic  = "no_unrestricted_all_traffic"
	IDRequireIMDSv2             = "require_imdsv2"
	IDRequireInstanceProfile    = "require_instance_profile"
	IDRequireSSHKey             = "require_ssh_key"
	IDASGUseLaunchTemplate      = "asg_use_launch_template"
)

// Builtin returns the built-in catalog in evaluation order.
func Builtin(s Settings) []domain.RuleDefinition {
	var defs []domain.RuleDefinition
	defs = append(defs, generalRules(s)...)
	defs = append(defs, storageRules(s)...)
	defs = append(defs, databaseRules(s)...)
	defs = append(defs, computeRules(s)...)
	return defs
}

type check func(ctx context.Context, cs *domain.ChangeSet, c *Collector)

func define(id string, dom domain.RuleDomain, sev domain.Severity, ref, description string, fn check) domain.RuleDefinition {
	def := domain.RuleDefinition{
		ID:            id,
		Description:   description,
		ComplianceRef: ref,
		Domain:        dom,
		Severity:      sev,
	}
	meta := def
	def.Evaluate = func(ctx context.Context, cs *domain.ChangeSet, resolver domain.ExceptionResolver) []domain.Finding {
		c := NewCollector(meta, resolver)
		fn(ctx, cs, c)
		return c.Findings()
	}
	return def
}
