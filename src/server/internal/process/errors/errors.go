package processerrors

import (
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
)

const (
	MissingFileCode      = api.ErrorCode("missing_file")
	UnsupportedFileCode  = api.ErrorCode("unsupported_file")
	EmptyRemovalSetCode  = api.ErrorCode("empty_removal_set")
	InvalidActionCode    = api.ErrorCode("invalid_action")
	StemUnavailableCode  = api.ErrorCode("stem_unavailable")
	EmptySelectionCode   = api.ErrorCode("empty_selection")
	BadFormCode          = api.ErrorCode("bad_form")
	UnknownPresetCode    = api.ErrorCode("unknown_preset")
	SeparationFailedCode = api.ErrorCode("separation_failed")
	IncompleteOutputCode = api.ErrorCode("incomplete_separation_output")
	MixFailedCode        = api.ErrorCode("mix_failed")
)

var validationCodes = map[remixerrors.ValidationReason]api.ErrorCode{
	remixerrors.MissingFile:     MissingFileCode,
	remixerrors.UnsupportedFile: UnsupportedFileCode,
	remixerrors.EmptyRemovalSet: EmptyRemovalSetCode,
	remixerrors.InvalidAction:   InvalidActionCode,
	remixerrors.StemUnavailable: StemUnavailableCode,
	remixerrors.EmptySelection:  EmptySelectionCode,
}

var kindCodes = map[remixerrors.Kind]api.ErrorCode{
	remixerrors.UnknownPresetKind:              UnknownPresetCode,
	remixerrors.SeparationFailedKind:           SeparationFailedCode,
	remixerrors.IncompleteSeparationOutputKind: IncompleteOutputCode,
	remixerrors.MixFailedKind:                  MixFailedCode,
}

// FromRemixError commits a pipeline error with the code for its kind
func FromRemixError(err error) *api.Error {
	kind := remixerrors.KindOf(err)

	if kind == remixerrors.ValidationKind {
		code, ok := validationCodes[remixerrors.ReasonOf(err)]
		if !ok {
			code = BadFormCode
		}

		return api.CommitError(err, code, remixerrors.UserMessage(err))
	}

	code, ok := kindCodes[kind]
	if !ok {
		code = api.DefaultErrorCode
	}

	return api.CommitError(err, code, remixerrors.UserMessage(err))
}
