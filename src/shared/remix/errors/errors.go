package remixerrors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

type Kind string

const (
	UnknownKind                    Kind = "unknown"
	ValidationKind                 Kind = "validation"
	UnknownPresetKind              Kind = "unknown_preset"
	SeparationFailedKind           Kind = "separation_failed"
	IncompleteSeparationOutputKind Kind = "incomplete_separation_output"
	MixFailedKind                  Kind = "mix_failed"
)

type ValidationReason string

const (
	MissingFile     ValidationReason = "missing_file"
	UnsupportedFile ValidationReason = "unsupported_file"
	EmptyRemovalSet ValidationReason = "empty_removal_set"
	InvalidAction   ValidationReason = "invalid_action"
	StemUnavailable ValidationReason = "stem_unavailable"
	EmptySelection  ValidationReason = "empty_selection"
)

// ErrNoInputs is returned by the mixer when asked to mix nothing
var ErrNoInputs = errors.New("No stems to mix")

// ValidationError is caller-correctable: bad upload, bad form fields,
// or a selection that cannot be satisfied by the chosen preset
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func NewValidationError(reason ValidationReason, format string, args ...any) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

func (v *ValidationError) Error() string {
	return v.Message
}

type UnknownPresetError struct {
	Preset string
}

func (u *UnknownPresetError) Error() string {
	return fmt.Sprintf("Unknown preset: %s", u.Preset)
}

type SeparationFailedError struct {
	Preset string
	Cause  error
}

func (s *SeparationFailedError) Error() string {
	return fmt.Sprintf("Spleeter failed (%s): %v", s.Preset, s.Cause)
}

func (s *SeparationFailedError) Unwrap() error {
	return s.Cause
}

// IncompleteSeparationOutputError means the engine ran but the stem files it promised are not all there
type IncompleteSeparationOutputError struct {
	Preset  string
	Missing []string
	Present []string
}

func (i *IncompleteSeparationOutputError) Error() string {
	return fmt.Sprintf("Unexpected output for %s. Missing/empty stems: [%s]. Present: [%s]",
		i.Preset, strings.Join(i.Missing, ", "), strings.Join(i.Present, ", "))
}

type MixFailedError struct {
	Diagnostic string
}

func (m *MixFailedError) Error() string {
	return fmt.Sprintf("FFmpeg mix failed: %s", m.Diagnostic)
}

// KindOf classifies err by the first taxonomy error found in its chain
func KindOf(err error) Kind {
	var (
		validationErr *ValidationError
		unknownPreset *UnknownPresetError
		separationErr *SeparationFailedError
		incompleteErr *IncompleteSeparationOutputError
		mixFailedErr  *MixFailedError
	)

	switch {
	case err == nil:
		return UnknownKind
	case errors.As(err, &validationErr):
		return ValidationKind
	case errors.As(err, &unknownPreset):
		return UnknownPresetKind
	case errors.As(err, &incompleteErr):
		return IncompleteSeparationOutputKind
	case errors.As(err, &separationErr):
		return SeparationFailedKind
	case errors.As(err, &mixFailedErr):
		return MixFailedKind
	default:
		return UnknownKind
	}
}

// ReasonOf returns the validation reason, or "" if err is not a validation error
func ReasonOf(err error) ValidationReason {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Reason
	}

	return ""
}

// UserMessage is the taxonomy error's own message, without the wrapping context
func UserMessage(err error) string {
	var (
		validationErr *ValidationError
		unknownPreset *UnknownPresetError
		separationErr *SeparationFailedError
		incompleteErr *IncompleteSeparationOutputError
		mixFailedErr  *MixFailedError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &unknownPreset):
		return unknownPreset.Error()
	case errors.As(err, &incompleteErr):
		return incompleteErr.Error()
	case errors.As(err, &separationErr):
		return separationErr.Error()
	case errors.As(err, &mixFailedErr):
		return mixFailedErr.Error()
	default:
		return "Something unexpected happened while remixing"
	}
}
