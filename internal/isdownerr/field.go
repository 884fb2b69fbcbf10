package isdownerr

import (
	"fmt"
	"strings"
)

// Source is where settings were read from.
type Source string

const (
	// FromSettings is the settings after all sources and flags are merged.
	FromSettings Source = ""

	// FromEnv is the ISDOWN_* environment variables and the dotenv file.
	FromEnv Source = "environment variables"
)

// FieldError is an invalid setting.
type FieldError struct {
	// Key is the name of the setting in its source, like "ssh_port" or "ISDOWN_SSH_PORT".
	Key string

	// Value is the given value. Empty means the value was missing.
	Value string

	// Reason tells what is expected, like "must be at least 1".
	Reason string
}

func (e FieldError) Error() string {
	if e.Value == "" {
		return e.Key + ": " + e.Reason
	}
	return fmt.Sprintf("%s: invalid value %s (%s)", e.Key, e.Value, e.Reason)
}

// FieldErrors collects FieldErrors of one source.
//
// The zero Fields is no error, so it can be used as a builder:
//
//	errs := &isdownerr.FieldErrors{Kind: ErrInvalidConfig, Source: isdownerr.FromEnv}
//	errs.Add("ISDOWN_SSH_PORT", "ssh", "must be a number")
//	return errs.Err()
type FieldErrors struct {
	Kind   error
	Source Source
	Fields []FieldError
}

// Add appends an invalid setting.
func (e *FieldErrors) Add(key, value, reason string) {
	e.Fields = append(e.Fields, FieldError{Key: key, Value: value, Reason: reason})
}

// Err returns e if it has any field, or nil.
func (e *FieldErrors) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Keys returns the keys of the invalid settings in the order they were added.
func (e *FieldErrors) Keys() []string {
	keys := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		keys[i] = f.Key
	}
	return keys
}

func (e *FieldErrors) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.Error())
	if e.Source != FromSettings {
		sb.WriteString(" in ")
		sb.WriteString(string(e.Source))
	}
	sb.WriteString(":")

	for _, f := range e.Fields {
		sb.WriteString("\n  ")
		sb.WriteString(f.Error())
	}

	return sb.String()
}

// Unwrap returns the kind and every FieldError, for errors.Is and errors.As.
func (e *FieldErrors) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields)+1)
	errs = append(errs, e.Kind)
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}
