package domain

const (
	// Common Keys
	KeyName   = "name"
	KeyTags   = "tags" // map[string]string after normalisation
	KeyRegion = "region"

	// Common tag keys
	TagName        = "Name"
	TagOwner       = "Owner"
	TagEnvironment = "Environment"

	// Compute Instance / Launch Template Keys
	ComputeAssociatePublicIPKey  = "associate_public_ip_address"
	ComputeNetworkInterfacesKey  = "network_interfaces"
	ComputeMetadataOptionsKey    = "metadata_options"
	ComputeHTTPTokensKey         = "http_tokens"
	ComputeIAMInstanceProfileKey = "iam_instance_profile"
	ComputeKeyNameKey            = "key_name"
	ASGLaunchConfigurationKey    = "launch_configuration"

	// Security Group Keys
	SGIngressKey        = "ingress"
	SGTypeKey           = "type"
	SGFromPortKey       = "from_port"
	SGToPortKey         = "to_port"
	SGProtocolKey       = "protocol"
	SGIPProtocolKey     = "ip_protocol"
	SGCIDRBlocksKey     = "cidr_blocks"
	SGIPv6CIDRBlocksKey = "ipv6_cidr_blocks"
	SGCIDRIPv4Key       = "cidr_ipv4"
	SGCIDRIPv6Key       = "cidr_ipv6"

	// Storage Keys
	VolumeEncryptedKey           = "encrypted"
	VolumeKMSKeyIDKey            = "kms_key_id"
	BucketEncryptionRuleKey      = "rule"
	BucketEncryptionDefaultKey   = "apply_server_side_encryption_by_default"
	BucketEncryptionAlgorithmKey = "sse_algorithm"

	// Database Instance Keys
	DBStorageEncryptedKey        = "storage_encrypted"
	DBKMSKeyIDKey                = "kms_key_id"
	DBBackupRetentionPeriodKey   = "backup_retention_period"
	DBMultiAZKey                 = "multi_az"
	DBPubliclyAccessibleKey      = "publicly_accessible"
	DBAutoMinorVersionUpgradeKey = "auto_minor_version_upgrade"
	DBParameterKey               = "parameter"
	DBParameterNameKey           = "name"
	DBParameterValueKey          = "value"
)
