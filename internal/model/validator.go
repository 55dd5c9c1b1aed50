package model

import (
	"regexp"
	"strings"
)

// EmailRX is the address pattern accepted by every write boundary.
var EmailRX = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a write is rejected before reaching the store.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the given field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validator accumulates field errors, keeping only the first message per field.
type Validator struct {
	fields []FieldError
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	for _, f := range v.fields {
		if f.Field == field {
			return
		}
	}
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

// Valid reports whether no check has failed.
func (v *Validator) Valid() bool {
	return len(v.fields) == 0
}

// Err returns a *ValidationError, or nil when every check passed.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	out := make([]FieldError, len(v.fields))
	copy(out, v.fields)
	return &ValidationError{Fields: out}
}

// NotBlank reports whether s has any non-space content.
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Matches reports whether s matches rx.
func Matches(s string, rx *regexp.Regexp) bool {
	return rx.MatchString(s)
}
