package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindConfig, "load", "failed to load config",
				errors.New("file not found")),
			contains: []string{"[config:load]", "failed to load config", "file not found"},
		},
		{
			name:     "error without cause",
			err:      New(KindPrecondition, "batch.discover", "no matching files"),
			contains: []string{"[precondition:batch.discover]", "no matching files"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindConfig, "test", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestWrap_KeepsInnermostKind(t *testing.T) {
	inner := New(KindPrecondition, "batch.discover", "input directory missing")
	outer := Wrap(KindBootstrap, "run", "run failed", fmt.Errorf("context: %w", inner))

	if outer.Kind != KindPrecondition {
		t.Fatalf("expected kind %s, got %s", KindPrecondition, outer.Kind)
	}
}

func TestWrap_NilError(t *testing.T) {
	if Wrap(KindStorage, "op", "msg", nil) != nil {
		t.Fatal("expected nil for nil cause")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindConfig, "test", "message"),
			kind:     KindConfig,
			expected: true,
		},
		{
			name:     "wrapped error kind match",
			err:      Wrap(KindConversion, "test", "message", errors.New("cause")),
			kind:     KindConversion,
			expected: true,
		},
		{
			name:     "fmt wrapped typed error",
			err:      fmt.Errorf("outer: %w", New(KindProcess, "kill", "denied")),
			kind:     KindProcess,
			expected: true,
		},
		{
			name:     "error kind mismatch",
			err:      New(KindConfig, "test", "message"),
			kind:     KindStorage,
			expected: false,
		},
		{
			name:     "non-typed error",
			err:      errors.New("plain error"),
			kind:     KindConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKind(tt.err, tt.kind)
			if result != tt.expected {
				t.Errorf("IsKind() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %s, want %s", got, KindUnknown)
	}
	if got := KindOf(New(KindStorage, "op", "msg")); got != KindStorage {
		t.Errorf("KindOf(storage) = %s, want %s", got, KindStorage)
	}
}
