// Package parser defines the shared contract that declarative task-file
// formats implement: given a byte buffer and an optional map of action
// overrides, produce a sequence of ready-to-ingest tasks.
package parser

import (
	"fmt"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/task"
)

// ActionResolver builds the Action for a task descriptor. name is the
// descriptor's action identifier (e.g. "shell", "print"); args carries
// whatever free-form parameters the file format attached to that task.
// A caller-supplied override map takes priority over the resolver when
// both name a given task id — see Parser.Parse.
type ActionResolver interface {
	Resolve(name string, args map[string]any) (action.Action, error)
}

// ActionResolverFunc adapts a plain function to ActionResolver.
type ActionResolverFunc func(name string, args map[string]any) (action.Action, error)

// Resolve implements ActionResolver.
func (f ActionResolverFunc) Resolve(name string, args map[string]any) (action.Action, error) {
	return f(name, args)
}

// Parser turns a declarative task file into tasks the Engine can ingest.
// overrides maps a file-local task identifier straight to an Action,
// bypassing resolver lookup entirely for that task — the caller's escape
// hatch for wiring in an Action the file format has no syntax for.
type Parser interface {
	Parse(data []byte, resolver ActionResolver, overrides map[string]action.Action) ([]task.Task, error)
}

// IllegalFile is returned when the input isn't well-formed in the file
// format's own syntax (e.g. malformed YAML or HCL).
type IllegalFile struct {
	Err error
}

func (e *IllegalFile) Error() string { return fmt.Sprintf("illegal file: %v", e.Err) }
func (e *IllegalFile) Unwrap() error { return e.Err }

// FileContentError is returned when the input parses syntactically but its
// structure doesn't match what a task file requires (e.g. the top-level
// value isn't a list of tasks).
type FileContentError struct {
	Msg string
}

func (e *FileContentError) Error() string { return fmt.Sprintf("file content error: %s", e.Msg) }

// TaskErrorKind enumerates the specific ways a single task entry can be
// malformed: missing id, missing name, an unknown predecessor
// reference, or a duplicate identifier.
type TaskErrorKind int

const (
	MissingID TaskErrorKind = iota
	MissingName
	UnknownPredecessorReference
	DuplicateIdentifier
)

func (k TaskErrorKind) String() string {
	switch k {
	case MissingID:
		return "missing_id"
	case MissingName:
		return "missing_name"
	case UnknownPredecessorReference:
		return "unknown_predecessor_reference"
	case DuplicateIdentifier:
		return "duplicate_identifier"
	default:
		return "unknown"
	}
}

// TaskError names the specific structural problem with one task entry,
// including the file-local identifier when one was recoverable.
type TaskError struct {
	Kind  TaskErrorKind
	LocalID string
}

func (e *TaskError) Error() string {
	if e.LocalID == "" {
		return fmt.Sprintf("task error: %s", e.Kind)
	}
	return fmt.Sprintf("task error: %s (task %q)", e.Kind, e.LocalID)
}
