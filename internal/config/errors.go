package config

import (
	"errors"
	"fmt"
)

// errEmptyPattern is the cause of an InvalidPatternError for blank patterns.
var errEmptyPattern = errors.New("pattern is empty")

// InvalidPatternError reports a content pattern that is not a valid glob.
type InvalidPatternError struct {
	Path    string
	Index   int
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%scontentPatterns[%d]: invalid glob %q: %v", prefix(e.Path), e.Index, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// UnresolvedPluginError reports a plugin reference missing from the
// registry.
type UnresolvedPluginError struct {
	Path  string
	Index int
	Name  string
}

func (e *UnresolvedPluginError) Error() string {
	return fmt.Sprintf("%splugins[%d]: plugin %q is not registered", prefix(e.Path), e.Index, e.Name)
}

// MalformedConfigError reports a source that cannot be read or does not
// have the expected shape. Line and Column are zero when unknown.
type MalformedConfigError struct {
	Path   string
	Line   int
	Column int
	Detail string
	Err    error
}

func (e *MalformedConfigError) Error() string {
	msg := prefix(e.Path)
	if e.Line > 0 {
		msg = fmt.Sprintf("%sline %d: ", msg, e.Line)
	}
	msg += e.Detail
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedConfigError) Unwrap() error { return e.Err }

func prefix(path string) string {
	if path == "" {
		return ""
	}
	return path + ": "
}

func malformed(path, format string, args ...any) *MalformedConfigError {
	return &MalformedConfigError{Path: path, Detail: fmt.Sprintf(format, args...)}
}
