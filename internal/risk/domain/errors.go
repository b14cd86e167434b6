package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentials is returned for both unknown users and wrong
// passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

var errNonFiniteProbability = errors.New("classifier returned a non-finite probability")

// StartupError reports a required artifact that could not be loaded.
type StartupError struct {
	Artifact string // "model", "encoders", "credentials", ...
	Path     string
	Err      error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load %s from %q: %v", e.Artifact, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// EncodingError reports a categorical value missing from its encoder table.
type EncodingError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %q is not one of [%s]", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// ValidationError reports a numeric field outside its allowed range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InferenceError wraps any failure of the classifier call.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return "prediction error: " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error { return e.Err }
