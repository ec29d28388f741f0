package tfplan

import (
	"context"
	"os"
	"sync"

	tfjson "github.com/hashicorp/terraform-json"

	"github.com/olusolaa/infra-policy-gate/internal/core/ports"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

type planParser struct {
	filePath  string
	planCache *tfjson.Plan
	parseErr  error
	mutex     sync.RWMutex
	logger    ports.Logger
}

func newPlanParser(path string, logger ports.Logger) *planParser {
	return &planParser{
		filePath: path,
		logger:   logger.WithFields(map[string]any{"component": "tfplan_parser", "file_path": path}),
	}
}

// parseAndCache reads the plan once; later calls return the cached plan or error.
func (pp *planParser) parseAndCache(ctx context.Context) (*tfjson.Plan, error) {
	pp.mutex.RLock()
	if pp.planCache != nil || pp.parseErr != nil {
		defer pp.mutex.RUnlock()
		return pp.planCache, pp.parseErr
	}
	pp.mutex.RUnlock()

	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.planCache != nil || pp.parseErr != nil {
		return pp.planCache, pp.parseErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	raw, err := os.ReadFile(pp.filePath)
	if err != nil {
		pp.parseErr = errors.WrapUserFacing(err, errors.CodeChangeSetReadError, "failed to read plan file",
			"Render the plan with 'terraform show -json tfplan > plan.json' and pass its path with --plan.")
		return nil, pp.parseErr
	}
	if len(raw) == 0 {
		pp.parseErr = errors.NewUserFacing(errors.CodeChangeSetParseError, "plan file is empty", "")
		return nil, pp.parseErr
	}

	var plan tfjson.Plan
	if err := plan.UnmarshalJSON(raw); err != nil {
		pp.parseErr = errors.WrapUserFacing(err, errors.CodeChangeSetParseError, "invalid Terraform plan JSON",
			"The plan must be the output of 'terraform show -json' and carry a format_version.")
		return nil, pp.parseErr
	}

	pp.logger.Debugf(ctx, "Parsed plan format %s from Terraform %s with %d resource changes",
		plan.FormatVersion, plan.TerraformVersion, len(plan.ResourceChanges))
	pp.planCache = &plan
	return pp.planCache, nil
}
