package dto

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError reports every rejected request field with its reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, reason string) {
	if _, exists := f[field]; !exists {
		f[field] = reason
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// Column widths of the transactions table.
const (
	maxNameLength    = 100
	maxProductLength = 200
)

func requireText(errs fieldErrors, field string, value *string, maxLen int) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		errs.add(field, "is required")
		return ""
	}
	trimmed := strings.TrimSpace(*value)
	if utf8.RuneCountInString(trimmed) > maxLen {
		errs.add(field, fmt.Sprintf("must be at most %d characters", maxLen))
		return ""
	}
	return trimmed
}

func optionalText(errs fieldErrors, field string, value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	switch {
	case trimmed == "":
		errs.add(field, "must not be empty")
		return nil
	case utf8.RuneCountInString(trimmed) > maxLen:
		errs.add(field, fmt.Sprintf("must be at most %d characters", maxLen))
		return nil
	}
	return &trimmed
}
