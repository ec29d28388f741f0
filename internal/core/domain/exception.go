package domain

type Tier string

const (
	TierOrganization Tier = "organization"
	TierEnvironment  Tier = "environment"
)

// Tiers lists tiers in precedence order.
var Tiers = []Tier{TierOrganization, TierEnvironment}

func (t Tier) String() string {
	return string(t)
}

// Wildcard is the resource value matching every target, and the target of
// findings about the change-set as a whole.
const Wildcard = "*"

// ExpiryLayout is the calendar date format of the expires field.
const ExpiryLayout = "2006-01-02"

type ExceptionRecord struct {
	Rule       string `mapstructure:"rule" validate:"required"`
	Resource   string `mapstructure:"resource" validate:"required"`
	Reason     string `mapstructure:"reason"`
	ApprovedBy string `mapstructure:"approved_by"`
	Expires    string `mapstructure:"expires" validate:"required"`
}

// ExceptionDocument holds the raw records of one tier as decoded from its
// source. Elements are normally map[string]any; anything else is malformed.
type ExceptionDocument struct {
	Tier    Tier
	Source  string
	Records []any
}

// ExceptionResolver answers whether an active waiver covers a rule and target.
type ExceptionResolver interface {
	IsExcepted(ruleID, target string) bool
}
