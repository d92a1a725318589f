// Package hclparser implements parser.Parser using HCL as a second
// declarative task-file format alongside YAML: a "task" block per task,
// labeled with its action identifier and local id, plus an optional
// depends_on list and an arguments block evaluated into an
// action.Action's parameters.
package hclparser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/idalloc"
	"github.com/skull8888888/dagrs/internal/parser"
	"github.com/skull8888888/dagrs/internal/task"
)

// Parser implements parser.Parser for HCL task files.
type Parser struct{}

// New returns a ready-to-use HCL Parser.
func New() *Parser { return &Parser{} }

// taskArgs captures the free-form "arguments" block content, decoded
// attribute-by-attribute after the outer schema is decoded — the same
// hcl.Body-remain deferral pattern common to HCL schemas with free-form blocks.
type taskArgs struct {
	Body hcl.Body `hcl:",remain"`
}

type taskBlock struct {
	ActionName string    `hcl:"action_name,label"`
	LocalID    string    `hcl:"local_id,label"`
	Name       string    `hcl:"name,optional"`
	DependsOn  []string  `hcl:"depends_on,optional"`
	Arguments  *taskArgs `hcl:"arguments,block"`
}

type document struct {
	Tasks []*taskBlock `hcl:"task,block"`
	Body  hcl.Body     `hcl:",remain"`
}

// Parse implements parser.Parser. HCL diagnostics cite the placeholder
// filename "grid.hcl"; use ParseNamed to supply the real one.
func (p *Parser) Parse(data []byte, resolver parser.ActionResolver, overrides map[string]action.Action) ([]task.Task, error) {
	return p.ParseNamed(data, "grid.hcl", resolver, overrides)
}

// ParseNamed is Parse with an explicit filename, used by callers that read
// from disk and want HCL diagnostics to cite the real path.
func (p *Parser) ParseNamed(data []byte, filename string, resolver parser.ActionResolver, overrides map[string]action.Action) ([]task.Task, error) {
	hp := hclparse.NewParser()
	file, diags := hp.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, &parser.IllegalFile{Err: diags}
	}

	var doc document
	diags = gohcl.DecodeBody(file.Body, nil, &doc)
	if diags.HasErrors() {
		return nil, &parser.IllegalFile{Err: diags}
	}
	if len(doc.Tasks) == 0 {
		return nil, &parser.FileContentError{Msg: "document has no top-level \"task\" blocks"}
	}

	byLocalID := make(map[string]*task.DefaultTask, len(doc.Tasks))

	for _, block := range doc.Tasks {
		if block.LocalID == "" {
			return nil, &parser.TaskError{Kind: parser.MissingID}
		}
		if _, dup := byLocalID[block.LocalID]; dup {
			return nil, &parser.TaskError{Kind: parser.DuplicateIdentifier, LocalID: block.LocalID}
		}

		name := block.Name
		if name == "" {
			name = block.LocalID
		}

		args, err := decodeArguments(block.Arguments)
		if err != nil {
			return nil, fmt.Errorf("hclparser: task %q: %w", block.LocalID, err)
		}

		var act action.Action
		if override, ok := overrides[block.LocalID]; ok {
			act = override
		} else {
			resolved, err := resolver.Resolve(block.ActionName, args)
			if err != nil {
				return nil, fmt.Errorf("hclparser: resolving action for task %q: %w", block.LocalID, err)
			}
			act = resolved
		}

		t := task.NewNamed(name)
		t.SetAction(act)
		byLocalID[block.LocalID] = t
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for _, block := range doc.Tasks {
		t := byLocalID[block.LocalID]
		preds := make([]idalloc.TaskID, 0, len(block.DependsOn))
		for _, dep := range block.DependsOn {
			predTask, ok := byLocalID[dep]
			if !ok {
				return nil, &parser.TaskError{Kind: parser.UnknownPredecessorReference, LocalID: block.LocalID}
			}
			preds = append(preds, predTask.ID())
		}
		t.SetPredecessors(preds)
		tasks = append(tasks, t)
	}

	return tasks, nil
}

// decodeArguments evaluates every attribute in an "arguments" block's
// remaining body into a plain Go value, the same JustAttributes plus
// cty-to-Go conversion HCL-based tooling commonly uses to bridge HCL
// values into runner inputs.
func decodeArguments(args *taskArgs) (map[string]any, error) {
	if args == nil {
		return nil, nil
	}
	attrs, diags := args.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		converted, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		out[name] = converted
	}
	return out, nil
}

// ctyToGo converts the small set of cty value kinds a task argument is
// expected to hold into their natural Go equivalents.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	switch val.Type() {
	case cty.String:
		var s string
		if err := gocty.FromCtyValue(val, &s); err != nil {
			return nil, err
		}
		return s, nil
	case cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return nil, err
		}
		return b, nil
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported argument type %s", val.Type().FriendlyName())
	}
}
