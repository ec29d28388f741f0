package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/infra-policy-gate/internal/app"
	"github.com/olusolaa/infra-policy-gate/internal/log"
	"github.com/olusolaa/infra-policy-gate/internal/rules"
)

var showSettings bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := app.LoadConfig(ctx, viper.GetViper())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		defer tw.Flush()

		if showSettings {
			return printSettings(tw, cfg.Rules)
		}

		logger, err := log.NewLogger(cfg.LogConfig())
		if err != nil {
			return err
		}
		registry, err := app.BuildRegistry(ctx, cfg, logger)
		if err != nil {
			return err
		}

		fmt.Fprintln(tw, "ID\tSeverity\tDomain\tRef\tDescription")
		fmt.Fprintln(tw, "--\t--------\t------\t---\t-----------")
		for _, def := range registry.Definitions() {
			ref := def.ComplianceRef
			if ref == "" {
				ref = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", def.ID, def.Severity, def.Domain, ref, def.Description)
		}
		return nil
	},
}

func printSettings(tw *tabwriter.Writer, s rules.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	values := map[string]string{
		"allowed_regions":         strings.Join(s.AllowedRegions, ","),
		"min_backup_retention":    fmt.Sprint(s.MinBackupRetention),
		"name_prefix":             s.NamePrefix,
		"production_environments": strings.Join(s.ProductionEnvironments, ","),
		"required_tags":           strings.Join(s.RequiredTags, ","),
		"sensitive_ports":         joinInts(s.SensitivePorts),
		"taggable_types":          strings.Join(s.TaggableTypes, ","),
		"tls_parameter_name":      s.TLSParameterName,
		"tls_parameter_value":     s.TLSParameterValue,
	}
	fmt.Fprintln(tw, "Key\tValue")
	fmt.Fprintln(tw, "---\t-----")
	for _, key := range rules.Keys() {
		fmt.Fprintf(tw, "%s\t%s\n", key, values[key])
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func init() {
	rulesCmd.Flags().BoolVar(&showSettings, "settings", false, "List the rule setting keys and their effective values")
}
