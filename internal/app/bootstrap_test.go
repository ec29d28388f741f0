package app_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/infra-policy-gate/internal/app"
	"github.com/olusolaa/infra-policy-gate/internal/config"
	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/log"
)

const (
	planFixture    = "../adapters/changeset/tfplan/testdata/plan.json"
	orgFixture     = "../adapters/exceptions/file/testdata/org.json"
	regoPacks      = "../adapters/rules/rego/testdata/packs"
	regoCollisions = "../adapters/rules/rego/testdata/collide"
	builtinCount   = 24
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := app.LoadConfig(context.Background(), viper.New())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("settings.mode", "enforce")
	v.Set("settings.reporter", "json")
	v.Set("inputs.plan.path", planFixture)
	v.Set("inputs.rego.dirs", []string{regoPacks})
	v.Set("metrics.file", "/tmp/policy_gate.prom")
	v.Set(app.RuleSettingsKey, "allowed_regions=eu-west-1,eu-central-1;min_backup_retention=30")

	cfg, err := app.LoadConfig(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, cfg.Enforcing())
	assert.Equal(t, "json", cfg.Settings.ReporterType)
	assert.Equal(t, planFixture, cfg.Inputs.Plan.FilePath)
	assert.Equal(t, []string{regoPacks}, cfg.Inputs.Rego.Dirs)
	assert.Equal(t, "/tmp/policy_gate.prom", cfg.Metrics.TextfilePath)
	assert.Equal(t, []string{"eu-west-1", "eu-central-1"}, cfg.Rules.AllowedRegions)
	assert.Equal(t, 30, cfg.Rules.MinBackupRetention)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		code    errors.Code
		message string
	}{
		{"Invalid Mode", "settings.mode", "strict", errors.CodeConfigValidation, "Mode"},
		{"Invalid Concurrency", "settings.concurrency", 0, errors.CodeConfigValidation, "Concurrency"},
		{"Unknown Rule Setting", app.RuleSettingsKey, "colour=blue", errors.CodeConfigValidation, "colour"},
		{"Malformed Rule Setting", app.RuleSettingsKey, "allowed_regions", errors.CodeConfigValidation, "allowed_regions"},
		{"Empty Region List", app.RuleSettingsKey, "allowed_regions=", errors.CodeConfigValidation, "AllowedRegions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := app.LoadConfig(context.Background(), v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			msg, _, userFacing := errors.GetUserFacingMessage(err)
			assert.True(t, userFacing)
			assert.Contains(t, msg, tt.message)
		})
	}
}

func TestBuildRegistry(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	registry, err := app.BuildRegistry(ctx, cfg, log.NewNop())
	require.NoError(t, err)
	assert.Equal(t, builtinCount, registry.Len())

	cfg.Inputs.Rego.Dirs = []string{regoPacks}
	registry, err = app.BuildRegistry(ctx, cfg, log.NewNop())
	require.NoError(t, err)
	assert.Equal(t, builtinCount+3, registry.Len())
	defs := registry.Definitions()
	assert.Equal(t, "ebs_pending_key", defs[builtinCount].ID)

	cfg.Inputs.Rego.Dirs = []string{regoCollisions}
	_, err = app.BuildRegistry(ctx, cfg, log.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeRuleLoadError))
}

func TestBuildApplicationFromViper_EndToEnd(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "policy_gate.prom")

	v := viper.New()
	v.Set("settings.log_level", "error")
	v.Set("settings.mode", "enforce")
	v.Set("settings.reporter", "json")
	v.Set("settings.reporter_config.json.compact", true)
	v.Set("inputs.plan.path", planFixture)
	v.Set("inputs.exceptions.organization", orgFixture)
	v.Set("metrics.file", metricsFile)

	application, err := app.BuildApplicationFromViper(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, application.Enforce)

	result, err := application.Run(context.Background())
	require.NotNil(t, result)
	assert.Equal(t, domain.VerdictFail, result.Verdict)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodePolicyViolation))

	var expired int
	for _, f := range result.Findings {
		if f.RuleID == "expired_exception" {
			expired++
		}
	}
	assert.Equal(t, 1, expired)

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "policy_gate_evaluations_total 1")
}

func TestBuildApplicationFromViper_MissingPlan(t *testing.T) {
	v := viper.New()
	v.Set("settings.log_level", "error")
	v.Set("inputs.plan.path", "does-not-exist.json")

	application, err := app.BuildApplicationFromViper(context.Background(), v)
	require.NoError(t, err)

	_, err = application.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeChangeSetReadError))
	var appErr *errors.AppError
	assert.True(t, stderrors.As(err, &appErr))
}
