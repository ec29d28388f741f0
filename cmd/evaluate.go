package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/infra-policy-gate/internal/app"
	"github.com/olusolaa/infra-policy-gate/internal/config"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a Terraform plan and report the verdict.",
	Long: `Evaluate loads the plan JSON and the exception documents, runs every rule and
prints the report. In enforce mode a fail verdict exits with status 1.`,
	Example: `  terraform show -json tfplan > plan.json
  policy-gate evaluate --plan plan.json --org-exceptions org.json --env-exceptions env.yaml --mode enforce
  policy-gate evaluate --plan plan.json --rule-settings 'allowed_regions=us-east-1;required_tags=Name,Owner'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}
		_, err = application.Run(cmd.Context())
		return err
	},
}

func init() {
	defaults := config.DefaultConfig()
	flags := evaluateCmd.Flags()

	flags.String("plan", defaults.Inputs.Plan.FilePath, "Terraform plan JSON file")
	flags.String("org-exceptions", "", "Organization tier exception document (.json, .yaml or .hcl)")
	flags.String("env-exceptions", "", "Environment tier exception document (.json, .yaml or .hcl)")
	flags.String("mode", string(defaults.Settings.Mode), "Gating mode: audit reports only, enforce fails on a fail verdict")
	flags.String("reporter", defaults.Settings.ReporterType, "Report format (text, json)")
	flags.Bool("no-color", false, "Disable colour in the text report")
	flags.Int("concurrency", defaults.Settings.Concurrency, "Maximum number of rules evaluated in parallel")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile")

	bindings := map[string]string{
		"inputs.plan.path":                       "plan",
		"inputs.exceptions.organization":         "org-exceptions",
		"inputs.exceptions.environment":          "env-exceptions",
		"settings.mode":                          "mode",
		"settings.reporter":                      "reporter",
		"settings.reporter_config.text.no_color": "no-color",
		"settings.concurrency":                   "concurrency",
		"metrics.file":                           "metrics-file",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}
