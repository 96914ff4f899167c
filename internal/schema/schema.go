// Package schema declares the HCL block structures of workload files.
package schema

import "github.com/hashicorp/hcl/v2"

// Task represents a `task` block from a user's workload file. Duration and
// Period stay unevaluated expressions at this stage; the workload loader
// resolves them into concrete values.
type Task struct {
	Name      string         `hcl:"name,label"`
	Duration  hcl.Expression `hcl:"duration"`
	Period    hcl.Expression `hcl:"period,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
}

// WorkloadFile is the top-level structure of a single workload file,
// containing all task blocks declared in it.
type WorkloadFile struct {
	Tasks []*Task  `hcl:"task,block"`
	Body  hcl.Body `hcl:",remain"`
}
