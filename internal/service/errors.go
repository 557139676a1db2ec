package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotPermitted is the single authorization failure surfaced to
	// callers. It deliberately does not say which check failed.
	ErrNotPermitted = errors.New("not permitted")

	// ErrStateConflict marks a transition attempted on a resource that
	// already left the required state.
	ErrStateConflict = errors.New("conflicting resource state")

	ErrNotFound = errors.New("resource not found")
)

// FieldErrors reports semantic field failures keyed by form field name.
// A non-empty map rejects the request whole; nothing is partially applied.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}
