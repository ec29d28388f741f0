package rules

import (
	"context"
	"strings"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

var (
	encryptedDatabaseTypes = []string{domain.TypeDBInstance, domain.TypeRDSCluster}
	databaseInstanceTypes  = []string{domain.TypeDBInstance, domain.TypeRDSClusterInstance}
	parameterGroupTypes    = []string{domain.TypeDBParameterGroup, domain.TypeRDSClusterParameterGroup}
)

func databaseRules(s Settings) []domain.RuleDefinition {
	return []domain.RuleDefinition{
		define(IDRequireRDSEncryption, domain.DomainDatabase, domain.SeverityBlocking, "SC-28",
			"RDS instances and clusters must enable storage encryption", requireRDSEncryption),
		define(IDRequireRDSKMSKey, domain.DomainDatabase, domain.SeverityBlocking, "SC-12",
			"Encrypted RDS storage must use a customer-managed KMS key", requireRDSKMSKey),
		define(IDRequireRDSBackupRetention, domain.DomainDatabase, domain.SeverityBlocking, "CP-9",
			"RDS backup retention must meet the minimum number of days", requireRDSBackupRetention(s)),
		define(IDRequireRDSMultiAZ, domain.DomainDatabase, domain.SeverityBlocking, "CP-10",
			"Production RDS instances must be deployed multi-AZ", requireRDSMultiAZ(s)),
		define(IDRequireRDSPrivate, domain.DomainDatabase, domain.SeverityBlocking, "AC-4",
			"RDS instances must not be publicly accessible", requireRDSPrivate),
		define(IDRDSAutoMinorUpgrade, domain.DomainDatabase, domain.SeverityAdvisory, "SI-2",
			"RDS instances should enable automatic minor version upgrades", rdsAutoMinorUpgrade),
		define(IDRDSRequireTLS, domain.DomainDatabase, domain.SeverityAdvisory, "SC-8",
			"RDS parameter groups should enforce TLS connections", rdsRequireTLS(s)),
	}
}

// requireRDSEncryption treats an absent storage_encrypted as unencrypted.
func requireRDSEncryption(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(encryptedDatabaseTypes...) {
		if !isTrue(rc.Attributes(), domain.DBStorageEncryptedKey) {
			c.Add(rc.Address, "%s must be encrypted (storage_encrypted = %s)",
				rc.Address, describe(rc.Attributes(), domain.DBStorageEncryptedKey))
		}
	}
}

func requireRDSKMSKey(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(encryptedDatabaseTypes...) {
		attrs := rc.Attributes()
		if isTrue(attrs, domain.DBStorageEncryptedKey) && !hasCustomerManagedKey(attrs, domain.DBKMSKeyIDKey) {
			c.Add(rc.Address, "%s must specify a customer-managed KMS key (kms_key_id = %s)",
				rc.Address, describe(attrs, domain.DBKMSKeyIDKey))
		}
	}
}

func requireRDSBackupRetention(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		for _, rc := range cs.InScopeOfType(encryptedDatabaseTypes...) {
			days, ok := rc.Attributes().Number(domain.DBBackupRetentionPeriodKey)
			if !ok {
				continue
			}
			if days < float64(s.MinBackupRetention) {
				c.Add(rc.Address, "%s retains backups for %v day(s); at least %d are required",
					rc.Address, days, s.MinBackupRetention)
			}
		}
	}
}

func requireRDSMultiAZ(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		for _, rc := range cs.InScopeOfType(domain.TypeDBInstance) {
			attrs := rc.Attributes()
			env, ok := attrs.String(domain.KeyTags, domain.TagEnvironment)
			if !ok || !containsFold(s.ProductionEnvironments, strings.TrimSpace(env)) {
				continue
			}
			if !isTrue(attrs, domain.DBMultiAZKey) {
				c.Add(rc.Address, "%s is tagged Environment=%s and must enable multi_az (multi_az = %s)",
					rc.Address, env, describe(attrs, domain.DBMultiAZKey))
			}
		}
	}
}

func requireRDSPrivate(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(databaseInstanceTypes...) {
		if isTrue(rc.Attributes(), domain.DBPubliclyAccessibleKey) {
			c.Add(rc.Address, "%s must not be publicly accessible", rc.Address)
		}
	}
}

// rdsAutoMinorUpgrade fires only on an explicit false.
func rdsAutoMinorUpgrade(_ context.Context, cs *domain.ChangeSet, c *Collector) {
	for _, rc := range cs.InScopeOfType(databaseInstanceTypes...) {
		if isFalse(rc.Attributes(), domain.DBAutoMinorVersionUpgradeKey) {
			c.Add(rc.Address, "%s disables auto_minor_version_upgrade", rc.Address)
		}
	}
}

func rdsRequireTLS(s Settings) check {
	return func(_ context.Context, cs *domain.ChangeSet, c *Collector) {
		for _, rc := range cs.InScopeOfType(parameterGroupTypes...) {
			params, _ := rc.Attributes().Blocks(domain.DBParameterKey)
			enforced := false
			for _, p := range params {
				name, _ := p.String(domain.DBParameterNameKey)
				if name != s.TLSParameterName {
					continue
				}
				if describe(p, domain.DBParameterValueKey) == s.TLSParameterValue {
					enforced = true
					break
				}
			}
			if !enforced {
				c.Add(rc.Address, "%s should set parameter '%s' to '%s' to require TLS",
					rc.Address, s.TLSParameterName, s.TLSParameterValue)
			}
		}
	}
}
