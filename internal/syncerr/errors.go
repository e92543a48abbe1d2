// Package syncerr defines the error taxonomy of the sync pipeline.
package syncerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauern/agentsync/internal/model"
)

// Kind identifies an error category for stable matching.
type Kind string

const (
	KindParse      Kind = "PARSE"
	KindNotFound   Kind = "FILE_NOT_FOUND"
	KindValidation Kind = "VALIDATION"
	KindWrite      Kind = "WRITE"
	KindPlugin     Kind = "PLUGIN"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrParse      = &Error{Kind: KindParse}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrWrite      = &Error{Kind: KindWrite}
	ErrPlugin     = &Error{Kind: KindPlugin}
)

// Error is a pipeline failure with an addressable path.
type Error struct {
	Kind Kind
	// Path is a file path, or a plugin id for KindPlugin.
	Path    string
	Message string
	// Issues carries every finding of an aggregated validation failure.
	Issues []model.Issue
	Err    error
}

var labels = map[Kind]string{
	KindParse:      "parse error",
	KindNotFound:   "not found",
	KindValidation: "validation error",
	KindWrite:      "write error",
	KindPlugin:     "plugin error",
}

// Error implements the error interface. The kind label comes first, then
// the path, the message and the cause, each only when present.
func (e *Error) Error() string {
	var sb strings.Builder
	label, ok := labels[e.Kind]
	if !ok {
		label = strings.ToLower(string(e.Kind)) + " error"
	}
	sb.WriteString(label)
	if e.Path != "" {
		fmt.Fprintf(&sb, " [%s]", e.Path)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	for _, issue := range e.Issues {
		sb.WriteString("\n  - ")
		sb.WriteString(issue.String())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Parse reports a malformed source document.
func Parse(path string, err error) *Error {
	return &Error{Kind: KindParse, Path: path, Err: err}
}

// NotFound reports a required path that does not exist.
func NotFound(path, what string) *Error {
	return &Error{Kind: KindNotFound, Path: path, Message: what}
}

// Validation reports one or more structural or request-level failures.
func Validation(message string, issues ...model.Issue) *Error {
	return &Error{Kind: KindValidation, Message: message, Issues: issues}
}

// Write reports an I/O failure while producing outputs.
func Write(path string, err error) *Error {
	return &Error{Kind: KindWrite, Path: path, Err: err}
}

// Plugin reports a target's internal failure.
func Plugin(id string, err error) *Error {
	return &Error{Kind: KindPlugin, Path: id, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
