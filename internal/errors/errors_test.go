package errors

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrorTypeConfig, "CONFIG"},
		{ErrorTypeTemplate, "TEMPLATE"},
		{ErrorTypeParse, "PARSE"},
		{ErrorTypeLink, "LINK"},
		{ErrorTypeExecute, "EXECUTE"},
		{ErrorTypeNotFound, "NOT_FOUND"},
		{ErrorTypeUnknown, "UNKNOWN"},
		{ErrorType(999), "UNKNOWN"}, // Test unknown type
	}

	for _, test := range tests {
		result := test.errorType.String()
		if result != test.expected {
			t.Errorf("ErrorType(%d).String(): expected '%s', got '%s'",
				int(test.errorType), test.expected, result)
		}
	}
}

func TestNew(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := New(ErrorTypeParse, "parser", "test message", cause)

	if err.Type != ErrorTypeParse {
		t.Errorf("Expected type %v, got %v", ErrorTypeParse, err.Type)
	}
	if err.Source != "parser" {
		t.Errorf("Expected source 'parser', got '%s'", err.Source)
	}
	if err.Cause != cause {
		t.Errorf("Expected cause to be set")
	}
	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
	if !Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
}

func TestError_Error(t *testing.T) {
	err1 := NewConfigError("config", "bad value", nil)
	expected1 := "[CONFIG] config: bad value"
	if err1.Error() != expected1 {
		t.Errorf("Expected '%s', got '%s'", expected1, err1.Error())
	}

	err2 := NewLinkError("linker", "/tv/a.mpg", "link failed", os.ErrExist)
	if !strings.Contains(err2.Error(), "(path: /tv/a.mpg)") {
		t.Errorf("Expected path in message, got '%s'", err2.Error())
	}
	if !strings.HasSuffix(err2.Error(), os.ErrExist.Error()) {
		t.Errorf("Expected cause in message, got '%s'", err2.Error())
	}
}

func TestError_WithContext(t *testing.T) {
	err := NewExecuteError("processor", "mv a b", nil)
	err.WithContext("exit_code", 1)

	if len(err.Context) != 2 {
		t.Errorf("Expected 2 context items, got %d", len(err.Context))
	}
	if err.Context["command"] != "mv a b" {
		t.Errorf("Expected command 'mv a b', got %v", err.Context["command"])
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		inputError   error
		expectedType ErrorType
	}{
		{ErrNoTemplate, ErrorTypeConfig},
		{fmt.Errorf("loading: %w", ErrNoDestination), ErrorTypeConfig},
		{fmt.Errorf("render: %w", ErrMissingParameter), ErrorTypeTemplate},
		{&os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, ErrorTypeNotFound},
		{&os.LinkError{Op: "link", Old: "a", New: "b", Err: os.ErrExist}, ErrorTypeLink},
		{fmt.Errorf("sh: exit status 2"), ErrorTypeExecute},
		{fmt.Errorf("invalid config line"), ErrorTypeConfig},
		{fmt.Errorf("some unknown error"), ErrorTypeUnknown},
	}

	for _, test := range tests {
		result := ClassifyError("test-source", test.inputError)
		if result.Type != test.expectedType {
			t.Errorf("ClassifyError(%v): expected type %v, got %v",
				test.inputError, test.expectedType, result.Type)
		}
	}
}

func TestClassifyError_TypedError(t *testing.T) {
	// Test that an existing Error is returned as-is, even when wrapped
	original := NewParseError("parser", "a.mpg", "message", nil)
	result := ClassifyError("different-source", fmt.Errorf("wrapped: %w", original))

	if result != original {
		t.Error("Expected same Error instance to be returned")
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if result := ClassifyError("source", nil); result != nil {
		t.Error("Expected nil result for nil error")
	}
}

func TestIsConfigError(t *testing.T) {
	if !IsConfigError(fmt.Errorf("startup: %w", ErrNoTemplate)) {
		t.Error("Expected missing template to be a config error")
	}
	if !IsConfigError(NewConfigError("config", "bad", nil)) {
		t.Error("Expected typed config error to be a config error")
	}
	if IsConfigError(ErrMissingParameter) {
		t.Error("Expected missing parameter not to be a config error")
	}
}

func TestErrorStats(t *testing.T) {
	stats := NewErrorStats()

	if stats.TotalErrors != 0 {
		t.Errorf("Expected 0 total errors, got %d", stats.TotalErrors)
	}
	if stats.GetErrorRate(ErrorTypeLink) != 0.0 {
		t.Errorf("Expected 0.0 link rate, got %f", stats.GetErrorRate(ErrorTypeLink))
	}

	stats.RecordError(NewLinkError("linker", "a", "exists", nil))
	stats.RecordError(NewExecuteError("processor", "false", nil))
	stats.RecordError(NewLinkError("linker", "b", "exists", nil))
	stats.RecordError(nil)

	if stats.TotalErrors != 3 {
		t.Errorf("Expected 3 total errors, got %d", stats.TotalErrors)
	}
	if stats.ErrorsByType[ErrorTypeLink] != 2 {
		t.Errorf("Expected 2 link errors, got %d", stats.ErrorsByType[ErrorTypeLink])
	}
	if stats.ErrorsBySource["processor"] != 1 {
		t.Errorf("Expected 1 error from processor, got %d", stats.ErrorsBySource["processor"])
	}
	if rate := stats.GetErrorRate(ErrorTypeLink); rate != 2.0/3.0 {
		t.Errorf("Expected link error rate %f, got %f", 2.0/3.0, rate)
	}
	if stats.LastError == nil || stats.LastError.Path != "b" {
		t.Error("Expected last error to be recorded")
	}
}

func BenchmarkClassifyError(b *testing.B) {
	testError := fmt.Errorf("exit status 1")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClassifyError("test-source", testError)
	}
}
