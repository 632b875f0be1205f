package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id == "" {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseRunID(t *testing.T) {
	id := NewRunID()

	parsed, err := ParseRunID("  " + id.String() + " ")
	if err != nil {
		t.Fatalf("ParseRunID(%q) returned error: %v", id, err)
	}
	if parsed != id {
		t.Errorf("Expected %s, got %s", id, parsed)
	}

	for _, bad := range []string{"", "   ", "not-a-uuid"} {
		if _, err := ParseRunID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestComputationErrorHelpers(t *testing.T) {
	invalid := NewInvalidInputError("sample A size", "must be at least 1")
	zero := NewDivisionByZeroError("standard error is zero")

	if !IsInvalidInput(invalid) || IsDivisionByZero(invalid) {
		t.Errorf("invalid input error misclassified: %v", invalid)
	}
	if !IsDivisionByZero(zero) || IsInvalidInput(zero) {
		t.Errorf("division by zero error misclassified: %v", zero)
	}
	overflow := NewNonFiniteError("t statistic overflows")
	if !IsNonFinite(overflow) || IsDivisionByZero(overflow) {
		t.Errorf("non-finite error misclassified: %v", overflow)
	}
	if !IsComputationError(invalid) || !IsComputationError(zero) || !IsComputationError(overflow) {
		t.Error("Expected every computation kind to be a computation error")
	}
	if IsComputationError(errors.New("connection refused")) {
		t.Error("Infrastructure errors must not be computation errors")
	}
	if !IsNotFoundError(ErrRunNotFound) {
		t.Error("Expected not-found error to be detected")
	}
}
