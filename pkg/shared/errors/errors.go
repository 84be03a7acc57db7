package errors

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid root path, mode, or configuration
// value. It is fatal: the run aborts before any scanning begins.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// NewConfigurationError creates a new ConfigurationError instance.
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// SchemaError reports a malformed pattern rule at load time. It is fatal: a
// broken rule silently under-detects, so no report is produced at all.
type SchemaError struct {
	RuleID string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("pattern schema error: %s", e.Reason)
	}
	return fmt.Sprintf("pattern schema error in rule %q: %s", e.RuleID, e.Reason)
}

// NewSchemaError creates a new SchemaError for the given rule.
func NewSchemaError(ruleID, format string, args ...interface{}) error {
	return &SchemaError{RuleID: ruleID, Reason: fmt.Sprintf(format, args...)}
}

// TimeoutError reports that the per-file match budget was exceeded. It is
// recovered: the file is marked scan-incomplete and the run continues.
type TimeoutError struct {
	Path string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("match timeout exceeded for %q", e.Path)
}

// NewTimeoutError creates a new TimeoutError for the given path.
func NewTimeoutError(path string) error {
	return &TimeoutError{Path: path}
}

// GitError reports a recoverable history-traversal failure such as a corrupt
// object. The scanner continues with reduced scope and the report states the
// limitation.
type GitError struct {
	Op     string
	Object string
	Err    error
}

func (e *GitError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("git %s failed for %s: %v", e.Op, e.Object, e.Err)
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// NewGitError wraps err with the failing operation and object identity.
func NewGitError(op, object string, err error) error {
	return &GitError{Op: op, Object: object, Err: err}
}

// GateError signals that the CI gate failed: at least one working-tree finding
// is CRITICAL or HIGH at confidence MEDIUM or above.
type GateError struct {
	Blocking int
}

func (e *GateError) Error() string {
	return fmt.Sprintf("CI gate failed: %d blocking finding(s)", e.Blocking)
}

// NewGateError creates a new GateError with the blocking finding count.
func NewGateError(blocking int) error {
	return &GateError{Blocking: blocking}
}

// IsFatal reports whether err belongs to the fatal part of the taxonomy,
// meaning no report may be produced.
func IsFatal(err error) bool {
	var cfgErr *ConfigurationError
	var schemaErr *SchemaError
	return errors.As(err, &cfgErr) || errors.As(err, &schemaErr)
}
