package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

const SourceTypeFile = "file"

// Config maps each tier to its exception document. An empty path means the
// tier has no exceptions.
type Config struct {
	Organization string `mapstructure:"organization"`
	Environment  string `mapstructure:"environment"`
}

type Loader struct {
	paths  map[domain.Tier]string
	logger ports.Logger
}

var _ ports.ExceptionSource = (*Loader)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewLoader(cfg Config, logger ports.Logger) *Loader {
	return &Loader{
		paths: map[domain.Tier]string{
			domain.TierOrganization: cfg.Organization,
			domain.TierEnvironment:  cfg.Environment,
		},
		logger: logger.WithFields(map[string]any{"component": "exception_loader"}),
	}
}

// Load reads the document of one tier. JSON is the canonical format; .yaml,
// .yml and .hcl files are decoded by extension. A missing file is an empty tier.
func (l *Loader) Load(ctx context.Context, tier domain.Tier) (domain.ExceptionDocument, error) {
	doc := domain.ExceptionDocument{Tier: tier}
	if ctx.Err() != nil {
		return doc, ctx.Err()
	}

	path, ok := l.paths[tier]
	if !ok {
		return doc, errors.Newf(errors.CodeExceptionReadError, "no exception source for tier '%s'", tier)
	}
	if path == "" {
		l.logger.Debugf(ctx, "No %s exception document configured", tier)
		return doc, nil
	}
	doc.Source = path

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Infof(ctx, "Exception document %s for %s tier not found, treating as empty", path, tier)
			return doc, nil
		}
		return doc, errors.WrapUserFacing(err, errors.CodeExceptionReadError,
			fmt.Sprintf("failed to read %s exception document %s", tier, path), "")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc.Records, err = decodeYAML(raw)
	case ".hcl":
		doc.Records, err = decodeHCL(raw, path)
	default:
		doc.Records, err = decodeJSON(raw)
	}
	if err != nil {
		return domain.ExceptionDocument{Tier: tier, Source: path}, errors.WrapUserFacing(err, errors.CodeExceptionParseError,
			fmt.Sprintf("invalid %s exception document %s", tier, path),
			"An exception document is a list of records with rule, resource, reason, approved_by and expires.")
	}

	l.logger.Debugf(ctx, "Loaded %d %s exception records from %s", len(doc.Records), tier, path)
	return doc, nil
}

func decodeJSON(raw []byte) ([]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return asList(v, "JSON array")
}

func decodeYAML(raw []byte) ([]any, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return asList(v, "YAML sequence")
}

func asList(v any, want string) ([]any, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return tv, nil
	default:
		return nil, fmt.Errorf("document must be a %s, got %T", want, v)
	}
}
