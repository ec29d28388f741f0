package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/olusolaa/infra-policy-gate/internal/adapters/changeset/tfplan"
	"github.com/olusolaa/infra-policy-gate/internal/adapters/exceptions/file"
	"github.com/olusolaa/infra-policy-gate/internal/adapters/rules/rego"
	"github.com/olusolaa/infra-policy-gate/internal/config"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/core/service"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/log"
	"github.com/olusolaa/infra-policy-gate/internal/metrics"
	jsonreporter "github.com/olusolaa/infra-policy-gate/internal/reporting/json"
	"github.com/olusolaa/infra-policy-gate/internal/reporting/text"
)

// RuleSettingsKey is the viper key of the --rule-settings override string.
const RuleSettingsKey = "rule_settings"

// LoadConfig unmarshals the configuration, applies the rule setting
// overrides and validates the result.
func LoadConfig(ctx context.Context, v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	overrides, err := parseRuleSettings(v.GetString(RuleSettingsKey))
	if err != nil {
		return nil, err
	}
	if err := applyRuleSettings(&cfg.Rules, overrides); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		return nil, describeValidation(err)
	}
	return cfg, nil
}

func describeValidation(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.CodeConfigValidation, "configuration validation failed")
	}
	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	for _, fe := range validationErrors {
		details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Please check your configuration file or flags.")
}

// BuildRegistry registers the built-in catalog, the hygiene checks and any
// custom rule packs, in that order.
func BuildRegistry(ctx context.Context, cfg *config.Config, logger ports.Logger) (*service.RuleRegistry, error) {
	registry, err := service.NewDefaultRegistry(cfg.Rules)
	if err != nil {
		return nil, err
	}
	var sources []ports.RuleSource
	if len(cfg.Inputs.Rego.Dirs) > 0 {
		sources = append(sources, rego.NewSource(cfg.Inputs.Rego, logger))
	}
	if err := registerRuleSources(ctx, registry, logger, sources...); err != nil {
		return nil, err
	}
	return registry, nil
}

func registerRuleSources(ctx context.Context, registry *service.RuleRegistry, logger ports.Logger, sources ...ports.RuleSource) error {
	for _, src := range sources {
		defs, err := src.Rules(ctx)
		if err != nil {
			return err
		}
		if err := registry.RegisterAll(defs...); err != nil {
			return err
		}
		logger.Debugf(ctx, "Registered %d rules from %s source", len(defs), src.Type())
	}
	return nil
}

func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg, err := LoadConfig(ctx, v)
	if err != nil {
		return nil, err
	}

	logger, err := log.NewLogger(cfg.LogConfig())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	registry, err := BuildRegistry(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "Rule registry holds %d rules", registry.Len())

	recorder, err := metrics.NewRecorder(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	engine, err := service.NewPolicyEngine(registry, logger, cfg.Settings.Concurrency, service.WithRecorder(recorder))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize policy engine")
	}

	changeSets, err := tfplan.NewSource(cfg.Inputs.Plan, logger)
	if err != nil {
		return nil, err
	}

	reporter, err := buildReporter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "Application bootstrap complete")
	return NewApplication(
		changeSets,
		file.NewLoader(cfg.Inputs.Exceptions, logger),
		engine,
		reporter,
		recorder,
		logger,
		cfg.Enforcing(),
	), nil
}

func buildReporter(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.Reporter, error) {
	reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": cfg.Settings.ReporterType})
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText:
		reportLog.Debugf(ctx, "Using Text reporter (Color: %t)", !cfg.Settings.Reporter.Text.NoColor)
		return text.NewReporter(cfg.Settings.Reporter.Text, reportLog)
	case jsonreporter.ReporterTypeJSON:
		return jsonreporter.NewReporter(cfg.Settings.Reporter.JSON, reportLog)
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType), "Supported: text, json")
	}
}
