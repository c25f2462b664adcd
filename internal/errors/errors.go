package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Sentinel errors for the required parameters. A caller can tell these
// apart from an optional keyword that simply has no value.
var (
	// ErrNoTemplate is returned when no template is configured.
	ErrNoTemplate = stderrors.New("no template specified")
	// ErrNoDestination is returned when no destination is configured.
	ErrNoDestination = stderrors.New("no destination specified")
	// ErrMissingParameter is returned when a required keyword has no value.
	ErrMissingParameter = stderrors.New("missing required parameter")
)

// ErrorType represents the type of error
type ErrorType int

const (
	// ErrorTypeConfig represents configuration and command line errors
	ErrorTypeConfig ErrorType = iota
	// ErrorTypeTemplate represents template rendering errors
	ErrorTypeTemplate
	// ErrorTypeParse represents errors reading or parsing input names
	ErrorTypeParse
	// ErrorTypeLink represents file placement errors
	ErrorTypeLink
	// ErrorTypeExecute represents failures of executed commands
	ErrorTypeExecute
	// ErrorTypeNotFound represents missing files or directories
	ErrorTypeNotFound
	// ErrorTypeUnknown represents unknown errors
	ErrorTypeUnknown
)

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeTemplate:
		return "TEMPLATE"
	case ErrorTypeParse:
		return "PARSE"
	case ErrorTypeLink:
		return "LINK"
	case ErrorTypeExecute:
		return "EXECUTE"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Error is an error raised while processing a recording
type Error struct {
	Type      ErrorType              `json:"type"`
	Source    string                 `json:"source"`
	Path      string                 `json:"path,omitempty"`
	Message   string                 `json:"message"`
	Cause     error                  `json:"cause,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath records the file the error relates to
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new Error
func New(errorType ErrorType, source, message string, cause error) *Error {
	return &Error{
		Type:      errorType,
		Source:    source,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewConfigError creates a configuration error
func NewConfigError(source, message string, cause error) *Error {
	return New(ErrorTypeConfig, source, message, cause)
}

// NewTemplateError creates a template error
func NewTemplateError(source, message string, cause error) *Error {
	return New(ErrorTypeTemplate, source, message, cause)
}

// NewParseError creates a parse error for path
func NewParseError(source, path, message string, cause error) *Error {
	return New(ErrorTypeParse, source, message, cause).WithPath(path)
}

// NewLinkError creates a file placement error for path
func NewLinkError(source, path, message string, cause error) *Error {
	return New(ErrorTypeLink, source, message, cause).WithPath(path)
}

// NewExecuteError creates an error for a failed command
func NewExecuteError(source, command string, cause error) *Error {
	return New(ErrorTypeExecute, source, "command failed", cause).WithContext("command", command)
}

// ClassifyError wraps an arbitrary error into an Error
func ClassifyError(source string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if stderrors.As(err, &typed) {
		return typed
	}

	switch {
	case stderrors.Is(err, ErrNoTemplate), stderrors.Is(err, ErrNoDestination):
		return NewConfigError(source, "configuration incomplete", err)
	case stderrors.Is(err, ErrMissingParameter):
		return NewTemplateError(source, "template incomplete", err)
	case stderrors.Is(err, os.ErrNotExist):
		return New(ErrorTypeNotFound, source, "file not found", err)
	case stderrors.Is(err, os.ErrExist), stderrors.Is(err, os.ErrPermission):
		return NewLinkError(source, "", "file placement failed", err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "exit status"):
		return New(ErrorTypeExecute, source, "command failed", err)
	case strings.Contains(errStr, "config"):
		return NewConfigError(source, "configuration error", err)
	default:
		return New(ErrorTypeUnknown, source, "unknown error occurred", err)
	}
}

// IsConfigError reports whether err is fatal before any file is processed
func IsConfigError(err error) bool {
	if stderrors.Is(err, ErrNoTemplate) || stderrors.Is(err, ErrNoDestination) {
		return true
	}
	var typed *Error
	return stderrors.As(err, &typed) && typed.Type == ErrorTypeConfig
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// ErrorStats tracks error statistics
type ErrorStats struct {
	TotalErrors    int64               `json:"total_errors"`
	ErrorsByType   map[ErrorType]int64 `json:"errors_by_type"`
	ErrorsBySource map[string]int64    `json:"errors_by_source"`
	LastError      *Error              `json:"last_error,omitempty"`
	LastUpdated    time.Time           `json:"last_updated"`
}

// NewErrorStats creates a new ErrorStats instance
func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ErrorsByType:   make(map[ErrorType]int64),
		ErrorsBySource: make(map[string]int64),
		LastUpdated:    time.Now(),
	}
}

// RecordError records an error in the statistics
func (es *ErrorStats) RecordError(err *Error) {
	if err == nil {
		return
	}

	es.TotalErrors++
	es.ErrorsByType[err.Type]++
	es.ErrorsBySource[err.Source]++
	es.LastError = err
	es.LastUpdated = time.Now()
}

// GetErrorRate returns the share of errors of a specific type
func (es *ErrorStats) GetErrorRate(errorType ErrorType) float64 {
	if es.TotalErrors == 0 {
		return 0.0
	}
	return float64(es.ErrorsByType[errorType]) / float64(es.TotalErrors)
}
