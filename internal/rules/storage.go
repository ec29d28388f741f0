package rules

import (
	"context"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

const sseAlgorithmKMS = "aws:kms"

func storageRules(_ Settings) []domain.RuleDefinition {
	return []domain.RuleDefinition{
		define(IDRequireEBSEncryption, domain.DomainStorage, domain.SeverityBlocking, "SC-28",
			"EBS volumes must be encrypted", requireEBSEncryption),
		define(IDRequireEBSKMSKey, domain.DomainStorage, domain.SeverityBlocking, "SC-12",
			"Encrypted EBS volumes must use a customer-managed KMS key", requireEBSKMSKey),
		define(IDRequireS3KMSEncryption, domain.DomainStorage, domain.SeverityBlocking, "SC-28",
			"S3 default encryption must use aws:kms", requireS3KMSEncryption),
		define(IDRequireS3EncryptionConfig, domain.DomainStorage, domain.SeverityBlocking, "SC-28",
			"Plans with S3 buckets must configure server-side encryption",
			requirePresence(domain.TypeS3Bucket, domain.TypeS3BucketEncryption)),
		define(IDRequireS3PublicAccess, domain.DomainStorage, domain.SeverityBlocking, "AC-3",
			"Plans with S3 buckets must configure a public access block",
			requirePresence(domain.TypeS3Bucket, domain.TypeS3BucketPublicAccessBlock)),
	}
}

func requireEBSEncryption(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(domain.TypeEBSVolume) {
		if !isTrue(rc.Attributes(), domain.VolumeEncryptedKey) {
			c.Add(rc.Address, "%s must be encrypted (encrypted = %s)", rc.Address, describe(rc.Attributes(), domain.VolumeEncryptedKey))
		}
	}
}

func requireEBSKMSKey(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(domain.TypeEBSVolume) {
		attrs := rc.Attributes()
		if isTrue(attrs, domain.VolumeEncryptedKey) && !hasCustomerManagedKey(attrs, domain.VolumeKMSKeyIDKey) {
			c.Add(rc.Address, "%s is encrypted but does not specify a customer-managed KMS key (kms_key_id = %s)",
				rc.Address, describe(attrs, domain.VolumeKMSKeyIDKey))
		}
	}
}

func requireS3KMSEncryption(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(domain.TypeS3BucketEncryption) {
		blocks, _ := rc.Attributes().Blocks(domain.BucketEncryptionRuleKey)
		for _, rule := range blocks {
			def, ok := rule.Block(domain.BucketEncryptionDefaultKey)
			if !ok {
				continue
			}
			algorithm, ok := def.String(domain.BucketEncryptionAlgorithmKey)
			if !ok {
				continue
			}
			if algorithm != sseAlgorithmKMS {
				c.Add(rc.Address, "%s uses SSE algorithm '%s'; '%s' is required", rc.Address, algorithm, sseAlgorithmKMS)
			}
		}
	}
}

// requirePresence reports the whole change-set when primary resources are
// planned without any auxiliary resource of the companion type.
func requirePresence(primary, auxiliary string) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		n := cs.CountByType(primary)
		if n == 0 || cs.CountByType(auxiliary) > 0 {
			return
		}
		c.Add(domain.Wildcard, "%d %s resource(s) planned but no %s resource exists", n, primary, auxiliary)
	}
}
