package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/infra-policy-gate/internal/app"
	apperrors "github.com/olusolaa/infra-policy-gate/internal/errors"
	"github.com/olusolaa/infra-policy-gate/internal/log"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "policy-gate",
	Short: "Evaluates Terraform plans against infrastructure compliance rules.",
	Long: `Policy Gate inspects the resource changes of a Terraform plan (terraform show -json)
against a catalog of compliance rules, applies time-bound organization and environment
exceptions, and reports a pass/fail verdict for the change-set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	defaults := log.DefaultConfig()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .policy-gate.yaml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", string(defaults.Level), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(defaults.Format), "Log format (text, json)")

	rootCmd.PersistentFlags().StringSlice("rego-dir", nil, "Directory of custom Rego rule packs (repeatable)")
	rootCmd.PersistentFlags().String("rule-settings", "", "Override rule settings (e.g., 'allowed_regions=us-east-1,us-west-2;min_backup_retention=14')")

	_ = viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("inputs.rego.dirs", rootCmd.PersistentFlags().Lookup("rego-dir"))
	_ = viper.BindPFlag(app.RuleSettingsKey, rootCmd.PersistentFlags().Lookup("rule-settings"))

	viper.SetEnvPrefix("POLICY_GATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(evaluateCmd, rulesCmd)
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".policy-gate")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.WrapUserFacing(err, apperrors.CodeConfigReadError, "failed to read config file",
				"Check the --config path and the YAML syntax of the file.")
		}
	}
	return nil
}

func printError(err error) {
	userMsg, suggestion, userFacing := apperrors.GetUserFacingMessage(err)
	if !userFacing {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
	}
}
