package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

func TestEBSEncryptionTwoStep(t *testing.T) {
	cs := changeSet(
		change("aws_ebs_volume.off", domain.TypeEBSVolume, map[string]any{"encrypted": false}),
		change("aws_ebs_volume.absent", domain.TypeEBSVolume, map[string]any{}),
		change("aws_ebs_volume.default_key", domain.TypeEBSVolume, map[string]any{"encrypted": true}),
		change("aws_ebs_volume.aws_alias", domain.TypeEBSVolume, map[string]any{
			"encrypted": true, "kms_key_id": "arn:aws-us-gov:kms:us-gov-west-1:123456789012:alias/aws/ebs",
		}),
		change("aws_ebs_volume.cmk", domain.TypeEBSVolume, map[string]any{
			"encrypted": true, "kms_key_id": "arn:aws-us-gov:kms:us-gov-west-1:123456789012:key/1234abcd-12ab-34cd-56ef-1234567890ab",
		}),
		change("aws_ebs_volume.pending", domain.TypeEBSVolume, map[string]any{"encrypted": true, "kms_key_id": domain.Unknown}),
	)

	assert.Equal(t, []string{"aws_ebs_volume.off", "aws_ebs_volume.absent"},
		targets(run(t, rules.IDRequireEBSEncryption, cs)))
	assert.Equal(t, []string{"aws_ebs_volume.default_key", "aws_ebs_volume.aws_alias"},
		targets(run(t, rules.IDRequireEBSKMSKey, cs)))
}

func TestRequireS3KMSEncryption(t *testing.T) {
	sse := func(address, algorithm string) domain.ResourceChange {
		return change(address, domain.TypeS3BucketEncryption, map[string]any{
			"rule": []any{map[string]any{
				"apply_server_side_encryption_by_default": []any{map[string]any{"sse_algorithm": algorithm}},
			}},
		})
	}
	cs := changeSet(
		sse("aws_s3_bucket_server_side_encryption_configuration.aes", "AES256"),
		sse("aws_s3_bucket_server_side_encryption_configuration.kms", "aws:kms"),
		change("aws_s3_bucket_server_side_encryption_configuration.empty", domain.TypeS3BucketEncryption, map[string]any{}),
	)
	findings := run(t, rules.IDRequireS3KMSEncryption, cs)
	require.Len(t, findings, 1)
	assert.Equal(t, "aws_s3_bucket_server_side_encryption_configuration.aes", findings[0].Resource)
	assert.Contains(t, findings[0].Message, "'AES256'")
}

func TestPresenceRules(t *testing.T) {
	bucket := change("aws_s3_bucket.logs", domain.TypeS3Bucket, map[string]any{})

	findings := run(t, rules.IDRequireS3EncryptionConfig, changeSet(bucket))
	require.Len(t, findings, 1)
	assert.Equal(t, domain.Wildcard, findings[0].Resource)
	assert.Equal(t, "1 aws_s3_bucket resource(s) planned but no aws_s3_bucket_server_side_encryption_configuration resource exists", findings[0].Message)

	findings = run(t, rules.IDRequireS3PublicAccess, changeSet(bucket))
	require.Len(t, findings, 1)
	assert.Equal(t, domain.Wildcard, findings[0].Resource)

	withAux := changeSet(bucket,
		change("aws_s3_bucket_server_side_encryption_configuration.logs", domain.TypeS3BucketEncryption, map[string]any{}),
		change("aws_s3_bucket_public_access_block.logs", domain.TypeS3BucketPublicAccessBlock, map[string]any{}),
	)
	assert.Empty(t, run(t, rules.IDRequireS3EncryptionConfig, withAux))
	assert.Empty(t, run(t, rules.IDRequireS3PublicAccess, withAux))

	assert.Empty(t, run(t, rules.IDRequireS3EncryptionConfig, changeSet()))

	deleted := bucket
	deleted.Actions = []domain.Action{domain.ActionDelete}
	assert.Empty(t, run(t, rules.IDRequireS3PublicAccess, changeSet(deleted)))
}
