package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// v7 keeps run history sortable by creation time
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// RunID identifies one persisted t-test computation
type RunID ID

func (id RunID) String() string { return ID(id).String() }

// NewRunID creates a fresh run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("run ID %q is not a valid UUID: %w", s, err)
	}
	return RunID(s), nil
}
