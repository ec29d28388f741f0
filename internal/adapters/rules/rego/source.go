package rego

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/v1/ast"
	opa "github.com/open-policy-agent/opa/v1/rego"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

const SourceTypeRego = "rego"

const (
	denyRule          = "deny"
	warnRule          = "warn"
	complianceRefRule = "compliance_ref"
	descriptionRule   = "description"
	domainRule        = "domain"
)

type Config struct {
	Dirs []string `mapstructure:"dirs"`
}

// Source loads custom rule packs. Every .rego module found under the
// configured directories becomes one rule definition.
type Source struct {
	dirs   []string
	logger ports.Logger
}

var _ ports.RuleSource = (*Source)(nil)

func NewSource(cfg Config, logger ports.Logger) *Source {
	return &Source{
		dirs:   cfg.Dirs,
		logger: logger.WithFields(map[string]any{"source": SourceTypeRego}),
	}
}

func (s *Source) Type() string { return SourceTypeRego }

// Rules compiles every module in path order. A module that fails to parse
// or compile aborts the load.
func (s *Source) Rules(ctx context.Context) ([]domain.RuleDefinition, error) {
	paths, err := s.discover()
	if err != nil {
		return nil, err
	}

	defs := make([]domain.RuleDefinition, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p, err := compile(ctx, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, p.definition())
		s.logger.Debugf(ctx, "Compiled rule pack %s as rule '%s' (%s)", path, p.id, p.severity)
	}

	if len(defs) > 0 {
		s.logger.Infof(ctx, "Loaded %d custom rules from %d rule pack directories", len(defs), len(s.dirs))
	}
	return defs, nil
}

func (s *Source) discover() ([]string, error) {
	var paths []string
	for _, dir := range s.dirs {
		var found []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isModule(d.Name()) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, errors.WrapUserFacing(err, errors.CodeRuleLoadError,
				fmt.Sprintf("failed to read rule pack directory %s", dir),
				"Check that every --rego-dir exists and is readable.")
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func isModule(name string) bool {
	return strings.HasSuffix(name, ".rego") && !strings.HasSuffix(name, "_test.rego")
}

type pack struct {
	path          string
	id            string
	description   string
	complianceRef string
	ruleDomain    domain.RuleDomain
	severity      domain.Severity
	query         opa.PreparedEvalQuery
}

func compile(ctx context.Context, path string) (*pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeRuleLoadError,
			fmt.Sprintf("failed to read rule pack %s", path), "")
	}

	module, err := ast.ParseModuleWithOpts(path, string(raw), ast.ParserOptions{RegoVersion: ast.RegoV1})
	if err != nil {
		return nil, loadError(err, path)
	}

	id, err := packageID(module)
	if err != nil {
		return nil, loadError(err, path)
	}

	hasDeny, hasWarn := declaredRules(module)
	if !hasDeny && !hasWarn {
		return nil, loadError(fmt.Errorf("package %s declares neither deny nor warn", module.Package.Path), path)
	}

	query, err := opa.New(
		opa.ParsedModule(module),
		opa.Query(module.Package.Path.String()),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, loadError(err, path)
	}

	p := &pack{
		path:       path,
		id:         id,
		ruleDomain: domain.DomainGeneral,
		severity:   domain.SeverityAdvisory,
		query:      query,
	}
	if hasDeny {
		p.severity = domain.SeverityBlocking
	}

	// Metadata rules must not depend on input.
	doc, err := p.eval(ctx, nil)
	if err != nil {
		return nil, loadError(err, path)
	}
	p.complianceRef = stringRule(doc, complianceRefRule)
	p.description = stringRule(doc, descriptionRule)
	if d := stringRule(doc, domainRule); d != "" {
		p.ruleDomain = domain.RuleDomain(d)
	}
	if p.description == "" {
		p.description = fmt.Sprintf("Custom rule from %s", filepath.Base(path))
	}
	return p, nil
}

func loadError(err error, path string) error {
	return errors.WrapUserFacing(err, errors.CodeRuleLoadError,
		fmt.Sprintf("failed to compile rule pack %s", path),
		"Fix the Rego module or remove it from the rule pack directory.")
}

func packageID(module *ast.Module) (string, error) {
	ref := module.Package.Path
	if len(ref) < 2 {
		return "", fmt.Errorf("package path %s is too short", ref)
	}
	last, ok := ref[len(ref)-1].Value.(ast.String)
	if !ok || string(last) == "" {
		return "", fmt.Errorf("package path %s does not end in a name", ref)
	}
	return string(last), nil
}

func declaredRules(module *ast.Module) (hasDeny, hasWarn bool) {
	for _, r := range module.Rules {
		switch r.Head.Ref().String() {
		case denyRule:
			hasDeny = true
		case warnRule:
			hasWarn = true
		}
	}
	return hasDeny, hasWarn
}

// eval returns the package document. A nil input leaves input undefined.
func (p *pack) eval(ctx context.Context, input map[string]any) (map[string]any, error) {
	var opts []opa.EvalOption
	if input != nil {
		opts = append(opts, opa.EvalInput(input))
	}
	rs, err := p.query.Eval(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return map[string]any{}, nil
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("package document is %T, not an object", rs[0].Expressions[0].Value)
	}
	return doc, nil
}

func stringRule(doc map[string]any, name string) string {
	s, _ := doc[name].(string)
	return s
}
