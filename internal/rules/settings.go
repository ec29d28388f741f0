package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

// Settings holds the tunable constants of the built-in catalog.
type Settings struct {
	RequiredTags           []string `mapstructure:"required_tags" validate:"min=1,dive,required"`
	TaggableTypes          []string `mapstructure:"taggable_types" validate:"min=1,dive,required"`
	AllowedRegions         []string `mapstructure:"allowed_regions" validate:"min=1,dive,required"`
	NamePrefix             string   `mapstructure:"name_prefix"`
	SensitivePorts         []int    `mapstructure:"sensitive_ports" validate:"dive,min=0,max=65535"`
	MinBackupRetention     int      `mapstructure:"min_backup_retention" validate:"min=0"`
	ProductionEnvironments []string `mapstructure:"production_environments" validate:"dive,required"`
	TLSParameterName       string   `mapstructure:"tls_parameter_name" validate:"required"`
	TLSParameterValue      string   `mapstructure:"tls_parameter_value" validate:"required"`
}

func DefaultSettings() Settings {
	return Settings{
		RequiredTags: []string{domain.TagName, domain.TagOwner, domain.TagEnvironment},
		TaggableTypes: []string{
			domain.TypeInstance,
			domain.TypeLaunchTemplate,
			domain.TypeSecurityGroup,
			domain.TypeEBSVolume,
			domain.TypeS3Bucket,
			domain.TypeDBInstance,
			domain.TypeRDSCluster,
			domain.TypeDBParameterGroup,
			domain.TypeKMSKey,
			"aws_vpc",
			"aws_subnet",
			"aws_lb",
			"aws_iam_role",
			"aws_efs_file_system",
			"aws_dynamodb_table",
			"aws_lambda_function",
			"aws_eks_cluster",
		},
		AllowedRegions:         []string{"us-gov-west-1", "us-gov-east-1"},
		NamePrefix:             "bmc3-",
		SensitivePorts:         []int{22, 3389, 3306, 5432, 1433, 27017},
		MinBackupRetention:     7,
		ProductionEnvironments: []string{"dsop", "prod", "production"},
		TLSParameterName:       "rds.force_ssl",
		TLSParameterValue:      "1",
	}
}

var validate = validator.New()

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.WrapUserFacing(err, errors.CodeConfigValidation,
			"invalid rule settings", "Check the 'rules' section of the configuration and --rule-settings.")
	}
	return nil
}

// Apply overrides one setting by its configuration key.
func (s *Settings) Apply(key string, values []string) error {
	switch key {
	case "required_tags":
		s.RequiredTags = values
	case "taggable_types":
		s.TaggableTypes = values
	case "allowed_regions":
		s.AllowedRegions = values
	case "production_environments":
		s.ProductionEnvironments = values
	case "name_prefix":
		return assignSingle(key, values, &s.NamePrefix)
	case "tls_parameter_name":
		return assignSingle(key, values, &s.TLSParameterName)
	case "tls_parameter_value":
		return assignSingle(key, values, &s.TLSParameterValue)
	case "min_backup_retention":
		var raw string
		if err := assignSingle(key, values, &raw); err != nil {
			return err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.WrapUserFacing(err, errors.CodeConfigValidation,
				fmt.Sprintf("rule setting '%s' must be an integer", key), "")
		}
		s.MinBackupRetention = n
	case "sensitive_ports":
		ports := make([]int, 0, len(values))
		for _, v := range values {
			p, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return errors.WrapUserFacing(err, errors.CodeConfigValidation,
					fmt.Sprintf("rule setting '%s' contains non-numeric port %q", key, v), "")
			}
			ports = append(ports, p)
		}
		s.SensitivePorts = ports
	default:
		return errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unknown rule setting '%s'", key),
			"Run 'policy-gate rules --settings' to list the supported keys.")
	}
	return nil
}

// Keys lists the keys accepted by Apply.
func Keys() []string {
	return []string{
		"allowed_regions",
		"min_backup_retention",
		"name_prefix",
		"production_environments",
		"required_tags",
		"sensitive_ports",
		"taggable_types",
		"tls_parameter_name",
		"tls_parameter_value",
	}
}

func assignSingle(key string, values []string, dst *string) error {
	if len(values) != 1 {
		return errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("rule setting '%s' takes exactly one value, got %d", key, len(values)), "")
	}
	*dst = values[0]
	return nil
}
