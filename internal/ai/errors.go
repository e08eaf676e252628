// Package ai provides language-model clients and response parsing for
// blueprint generation.
package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed indicates the model request itself failed
	ErrGenerationFailed = errors.New("ai generation failed")

	// ErrEmptyResponse indicates the model returned no content
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrNoBets indicates the parsed response carried no usable bets
	ErrNoBets = errors.New("response contains no bets")
)

// maxDiagnosticLen bounds how much raw model output a ParseError carries.
const maxDiagnosticLen = 500

// ParseError is returned when every JSON recovery stage fails. Raw holds
// a truncated prefix of the original text for diagnostics.
type ParseError struct {
	Stage string
	Raw   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse ai response (%s)", e.Stage)
}

func newParseError(stage, raw string) *ParseError {
	if len(raw) > maxDiagnosticLen {
		raw = raw[:maxDiagnosticLen]
	}
	return &ParseError{Stage: stage, Raw: raw}
}

// ValidationError is returned when a required bet field is missing or
// malformed. It is fatal for the single generation attempt it belongs to.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bet %d: invalid %s: %s", e.Index, e.Field, e.Msg)
}
