package model

import (
	"fmt"
	"sort"
	"strings"
)

// FieldError describes a single invalid field in a payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail about a rejected payload.
// It is always a client fault; handlers map it to a 400 response.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Add records a problem with the named field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field errors were recorded, so callers can
// branch on the result without checking the slice length themselves.
func (e *ValidationError) OrNil() *ValidationError {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
