package config

import (
	"github.com/olusolaa/infra-policy-gate/internal/adapters/changeset/tfplan"
	"github.com/olusolaa/infra-policy-gate/internal/adapters/exceptions/file"
	"github.com/olusolaa/infra-policy-gate/internal/adapters/rules/rego"
	"github.com/olusolaa/infra-policy-gate/internal/log"
	"github.com/olusolaa/infra-policy-gate/internal/metrics"
	jsonreporter "github.com/olusolaa/infra-policy-gate/internal/reporting/json"
	"github.com/olusolaa/infra-policy-gate/internal/reporting/text"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

// Mode decides what a fail verdict does to the exit status.
type Mode string

const (
	// ModeAudit reports findings and always succeeds.
	ModeAudit Mode = "audit"
	// ModeEnforce fails the run when the verdict is fail.
	ModeEnforce Mode = "enforce"
)

type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	Inputs   InputsConfig   `mapstructure:"inputs"`
	Rules    rules.Settings `mapstructure:"rules"`
	Metrics  metrics.Config `mapstructure:"metrics"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    log.Format      `mapstructure:"log_format" validate:"oneof=text json"`
	Concurrency  int             `mapstructure:"concurrency" validate:"gte=1,lte=256"`
	Mode         Mode            `mapstructure:"mode" validate:"oneof=audit enforce"`
	ReporterType string          `mapstructure:"reporter" validate:"oneof=text json"`
	Reporter     ReporterConfigs `mapstructure:"reporter_config"`
}

type InputsConfig struct {
	Plan       tfplan.Config `mapstructure:"plan"`
	Exceptions file.Config   `mapstructure:"exceptions"`
	Rego       rego.Config   `mapstructure:"rego"`
}

type ReporterConfigs struct {
	Text text.Config         `mapstructure:"text"`
	JSON jsonreporter.Config `mapstructure:"json"`
}

func (c *Config) Enforcing() bool {
	return c.Settings.Mode == ModeEnforce
}

func (c *Config) LogConfig() log.Config {
	return log.Config{Level: c.Settings.LogLevel, Format: c.Settings.LogFormat}
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			Concurrency:  10,
			Mode:         ModeAudit,
			ReporterType: text.ReporterTypeText,
		},
		Inputs: InputsConfig{
			Plan: tfplan.Config{FilePath: "plan.json"},
		},
		Rules: rules.DefaultSettings(),
	}
}
