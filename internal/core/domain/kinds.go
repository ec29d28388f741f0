package domain

type RuleDomain string

const (
	DomainGeneral  RuleDomain = "general"
	DomainCompute  RuleDomain = "compute"
	DomainDatabase RuleDomain = "database"
	DomainStorage  RuleDomain = "storage"
)

func (d RuleDomain) String() string {
	return string(d)
}

// Terraform resource types the built-in rules inspect.
const (
	TypeInstance                  = "aws_instance"
	TypeLaunchTemplate            = "aws_launch_template"
	TypeAutoscalingGroup          = "aws_autoscaling_group"
	TypeSecurityGroup             = "aws_security_group"
	TypeSecurityGroupRule         = "aws_security_group_rule"
	TypeSecurityGroupIngressRule  = "aws_vpc_security_group_ingress_rule"
	TypeEBSVolume                 = "aws_ebs_volume"
	TypeS3Bucket                  = "aws_s3_bucket"
	TypeS3BucketEncryption        = "aws_s3_bucket_server_side_encryption_configuration"
	TypeS3BucketPublicAccessBlock = "aws_s3_bucket_public_access_block"
	TypeDBInstance                = "aws_db_instance"
	TypeRDSCluster                = "aws_rds_cluster"
	TypeDBParameterGroup          = "aws_db_parameter_group"
	TypeKMSKey                    = "aws_kms_key"
)

const (
	TypeRDSClusterInstance       = "aws_rds_cluster_instance"
	TypeRDSClusterParameterGroup = "aws_rds_cluster_parameter_group"
)
