package workload

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/fsutil"
	"github.com/vk/dagsched/internal/schema"
)

// Load reads every .hcl file under path (a single file or a directory) and
// consolidates the task blocks into one Workload, in file walk order.
func Load(ctx context.Context, path string) (*Workload, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workload.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find workload files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl workload files found in %s", path)
	}

	w := &Workload{}
	parser := hclparse.NewParser()
	for _, file := range files {
		defs, err := loadFile(ctx, parser, file)
		if err != nil {
			return nil, err
		}
		w.Tasks = append(w.Tasks, defs...)
	}

	logger.Debug("Workload loaded.", "files", len(files), "tasks", len(w.Tasks))
	return w, nil
}

// loadFile parses a single HCL file and returns the task declarations found
// within it.
func loadFile(ctx context.Context, parser *hclparse.Parser, filePath string) ([]TaskDef, error) {
	logger := ctxlog.FromContext(ctx)

	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse workload file %s: %w", filePath, diags)
	}

	var parsed schema.WorkloadFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode workload file %s: %w", filePath, diags)
	}

	defs := make([]TaskDef, 0, len(parsed.Tasks))
	for _, block := range parsed.Tasks {
		duration, err := evalInt(block.Duration)
		if err != nil {
			return nil, fmt.Errorf("task %q in %s: duration: %w", block.Name, filePath, err)
		}
		if duration < 1 {
			return nil, fmt.Errorf("task %q in %s: duration must be positive, got %d",
				block.Name, filePath, duration)
		}

		period := DefaultPeriod
		if block.Period != nil {
			period, err = evalInt(block.Period)
			if err != nil {
				return nil, fmt.Errorf("task %q in %s: period: %w", block.Name, filePath, err)
			}
			if period < 0 {
				logger.Warn("Negative period replaced with default.",
					"task", block.Name, "period", period, "default", DefaultPeriod)
				period = DefaultPeriod
			}
		}

		defs = append(defs, TaskDef{
			Name:      block.Name,
			Duration:  duration,
			Period:    period,
			DependsOn: block.DependsOn,
		})
	}

	return defs, nil
}

// evalInt evaluates an HCL expression into an int. Workload files contain
// literal values only, so no evaluation context is supplied.
func evalInt(expr hcl.Expression) (int, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}

	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %s to a number: %w", val.Type().FriendlyName(), err)
	}

	var n int
	if err := gocty.FromCtyValue(converted, &n); err != nil {
		return 0, err
	}
	return n, nil
}
