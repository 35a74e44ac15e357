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
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// AnalysisID identifies one analysis invocation (one request/result pair).
	AnalysisID ID
	// PanelKey identifies a logical analysis panel. Invocations against the
	// same panel are serialized by the application service.
	PanelKey ID
)

func (id AnalysisID) String() string { return ID(id).String() }
func (k PanelKey) String() string    { return ID(k).String() }

// NewAnalysisID creates a fresh analysis identifier.
func NewAnalysisID() AnalysisID {
	return AnalysisID(NewID())
}

// ParsePanelKey parses a string into PanelKey
func ParsePanelKey(s string) (PanelKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("panel key cannot be empty")
	}
	return PanelKey(s), nil
}
