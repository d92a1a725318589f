// Package yamlparser implements parser.Parser for a YAML task-file
// format: a top-level "tasks" list, each entry carrying a local id, a
// display name, an optional predecessor id list, and an action
// descriptor.
package yamlparser

import (
	"fmt"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/idalloc"
	"github.com/skull8888888/dagrs/internal/parser"
	"github.com/skull8888888/dagrs/internal/task"
	"gopkg.in/yaml.v3"
)

// Parser implements parser.Parser for YAML task files.
type Parser struct{}

// New returns a ready-to-use YAML Parser.
func New() *Parser { return &Parser{} }

type document struct {
	Tasks []taskEntry `yaml:"tasks"`
}

type taskEntry struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Predecessors []string       `yaml:"predecessors"`
	Action       string         `yaml:"action"`
	Args         map[string]any `yaml:"args"`
}

// Parse implements parser.Parser.
func (p *Parser) Parse(data []byte, resolver parser.ActionResolver, overrides map[string]action.Action) ([]task.Task, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &parser.IllegalFile{Err: err}
	}
	if len(doc.Tasks) == 0 {
		return nil, &parser.FileContentError{Msg: "document has no top-level \"tasks\" list"}
	}

	byLocalID := make(map[string]*task.DefaultTask, len(doc.Tasks))
	order := make([]string, 0, len(doc.Tasks))

	for _, entry := range doc.Tasks {
		if entry.ID == "" {
			return nil, &parser.TaskError{Kind: parser.MissingID}
		}
		if entry.Name == "" {
			return nil, &parser.TaskError{Kind: parser.MissingName, LocalID: entry.ID}
		}
		if _, dup := byLocalID[entry.ID]; dup {
			return nil, &parser.TaskError{Kind: parser.DuplicateIdentifier, LocalID: entry.ID}
		}

		var act action.Action
		if override, ok := overrides[entry.ID]; ok {
			act = override
		} else if entry.Action != "" {
			resolved, err := resolver.Resolve(entry.Action, entry.Args)
			if err != nil {
				return nil, fmt.Errorf("yamlparser: resolving action for task %q: %w", entry.ID, err)
			}
			act = resolved
		}

		t := task.NewNamed(entry.Name)
		if act != nil {
			t.SetAction(act)
		}
		byLocalID[entry.ID] = t
		order = append(order, entry.ID)
	}

	tasks := make([]task.Task, 0, len(order))
	for _, localID := range order {
		entry := findEntry(doc.Tasks, localID)
		t := byLocalID[localID]

		preds := make([]idalloc.TaskID, 0, len(entry.Predecessors))
		for _, predLocalID := range entry.Predecessors {
			predTask, ok := byLocalID[predLocalID]
			if !ok {
				return nil, &parser.TaskError{Kind: parser.UnknownPredecessorReference, LocalID: localID}
			}
			preds = append(preds, predTask.ID())
		}
		t.SetPredecessors(preds)
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func findEntry(entries []taskEntry, id string) taskEntry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	return taskEntry{}
}
