package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

func TestResourceChange_InScope(t *testing.T) {
	tests := []struct {
		name    string
		actions []domain.Action
		inScope bool
		planned bool
	}{
		{"create", []domain.Action{domain.ActionCreate}, true, true},
		{"update", []domain.Action{domain.ActionUpdate}, true, true},
		{"replace", []domain.Action{domain.ActionDelete, domain.ActionCreate}, true, true},
		{"delete", []domain.Action{domain.ActionDelete}, false, false},
		{"no-op", []domain.Action{domain.ActionNoOp}, false, true},
		{"read", []domain.Action{domain.ActionRead}, false, true},
		{"empty", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := domain.ResourceChange{Actions: tt.actions}
			assert.Equal(t, tt.inScope, rc.InScope())
			assert.Equal(t, tt.planned, rc.Planned())
		})
	}
}

func TestChangeSet_Helpers(t *testing.T) {
	cs := &domain.ChangeSet{
		Changes: []domain.ResourceChange{
			{Address: "aws_s3_bucket.a", Type: domain.TypeS3Bucket, Actions: []domain.Action{domain.ActionCreate}},
			{Address: "aws_s3_bucket.b", Type: domain.TypeS3Bucket, Actions: []domain.Action{domain.ActionDelete}},
			{Address: "aws_s3_bucket.c", Type: domain.TypeS3Bucket, Actions: []domain.Action{domain.ActionNoOp}},
			{Address: "aws_instance.web", Type: domain.TypeInstance, Actions: []domain.Action{domain.ActionUpdate}},
		},
		ProviderConfigs: map[string]domain.ProviderConfig{
			"aws.east": {Key: "aws.east"},
			"aws":      {Key: "aws"},
		},
	}

	inScope := cs.InScope()
	assert.Len(t, inScope, 2)
	assert.Equal(t, "aws_s3_bucket.a", inScope[0].Address)
	assert.Equal(t, "aws_instance.web", inScope[1].Address)

	assert.Len(t, cs.InScopeOfType(domain.TypeInstance), 1)
	assert.Equal(t, 2, cs.CountByType(domain.TypeS3Bucket))
	assert.Equal(t, []string{"aws", "aws.east"}, cs.ProviderKeys())
	assert.Equal(t, "provider.aws.east", cs.ProviderConfigs["aws.east"].Target())

	var nilCS *domain.ChangeSet
	assert.Empty(t, nilCS.InScope())
	assert.Zero(t, nilCS.CountByType(domain.TypeS3Bucket))
}
