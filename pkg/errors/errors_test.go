package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "range violation",
			err:      NewRangeViolation("angle", 20, -15, 15),
			code:     ErrCodeRangeViolation,
			expected: true,
		},
		{
			name:     "range violation behind fmt wrap",
			err:      fmt.Errorf("rotation: %w", NewRangeViolation("angle", 20, -15, 15)),
			code:     ErrCodeRangeViolation,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidImage, "test"),
			expected: ErrCodeInvalidImage,
		},
		{
			name:     "range violation",
			err:      NewRangeViolation("zoom", 1.5, 0.8, 1.2),
			expected: ErrCodeRangeViolation,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "range violation",
			err:      NewRangeViolation("width", 5, -4, 4),
			expected: "width=5 out of range [-4, 4]",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRangeViolationError(t *testing.T) {
	t.Run("message names value and bounds", func(t *testing.T) {
		err := NewRangeViolation("zoom", 1.5, 0.8, 1.2)
		want := "RANGE_VIOLATION: zoom=1.5 out of range [0.8, 1.2]"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("whole numbers print without decimals", func(t *testing.T) {
		err := NewRangeViolation("width", 5, -4, 4)
		if !strings.Contains(err.Error(), "width=5") || !strings.Contains(err.Error(), "4]") {
			t.Errorf("Error() = %q, want width=5 and limit 4", err.Error())
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		err := NewInvertedRange("zoom.range.min", 1.1, 0.9)
		want := "RANGE_VIOLATION: zoom.range.min=1.1 exceeds max 0.9"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if UserMessage(err) != "zoom.range.min=1.1 exceeds max 0.9" {
			t.Errorf("UserMessage() = %q", UserMessage(err))
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &RangeViolationError{}
		if err.Code() != ErrCodeRangeViolation {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRangeViolation)
		}
	})

	t.Run("IsRangeViolation", func(t *testing.T) {
		if !IsRangeViolation(fmt.Errorf("wrap: %w", NewRangeViolation("shear", 1, -0.2, 0.2))) {
			t.Error("IsRangeViolation should see through wrapping")
		}
		if IsRangeViolation(New(ErrCodeInvalidInput, "x")) {
			t.Error("IsRangeViolation should be false for other codes")
		}
	})
}
