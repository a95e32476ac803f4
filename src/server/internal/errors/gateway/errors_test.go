package gateway_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-remix/src/server/internal/job/errors"
	"github.com/veedubyou/stem-remix/src/server/internal/process/errors"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	. "github.com/veedubyou/stem-remix/src/shared/testing"
)

var _ = Describe("ErrorResponse", func() {
	respond := func(apiErr *api.Error) *httptest.ResponseRecorder {
		response := httptest.NewRecorder()
		c := PrepareEchoContext(httptest.NewRequest("POST", "/process", nil), response)
		Expect(gateway.ErrorResponse(c, apiErr)).To(Succeed())
		return response
	}

	DescribeTable("maps pipeline errors to status codes",
		func(err error, status int, code api.ErrorCode) {
			response := respond(processerrors.FromRemixError(errors.Wrap(err, "Failed to remix")))
			Expect(response.Code).To(Equal(status))

			body := DecodeJSONError(response.Body)
			Expect(body.Code).To(Equal(string(code)))
			Expect(body.Msg).To(Equal(remixerrors.UserMessage(err)))
		},
		Entry("missing file", remixerrors.NewValidationError(remixerrors.MissingFile, "No file uploaded"), http.StatusBadRequest, processerrors.MissingFileCode),
		Entry("stem unavailable", remixerrors.NewValidationError(remixerrors.StemUnavailable, "nope"), http.StatusBadRequest, processerrors.StemUnavailableCode),
		Entry("empty selection", remixerrors.NewValidationError(remixerrors.EmptySelection, "nothing left"), http.StatusBadRequest, processerrors.EmptySelectionCode),
		Entry("unknown preset", &remixerrors.UnknownPresetError{Preset: "3stems"}, http.StatusInternalServerError, processerrors.UnknownPresetCode),
		Entry("separation failed", &remixerrors.SeparationFailedError{Preset: "4stems", Cause: errors.New("boom")}, http.StatusInternalServerError, processerrors.SeparationFailedCode),
		Entry("incomplete output", &remixerrors.IncompleteSeparationOutputError{Preset: "5stems", Missing: []string{"piano"}}, http.StatusInternalServerError, processerrors.IncompleteOutputCode),
		Entry("mix failed", &remixerrors.MixFailedError{Diagnostic: "bad codec"}, http.StatusInternalServerError, processerrors.MixFailedCode),
		Entry("anything else", errors.New("disk on fire"), http.StatusInternalServerError, api.DefaultErrorCode),
	)

	It("maps a missing job to not found", func() {
		response := respond(api.CommitError(errors.New("no such job"), joberrors.JobNotFoundCode, "The remix job could not be found"))
		Expect(response.Code).To(Equal(http.StatusNotFound))
	})

	It("keeps internal details out of the user message", func() {
		response := respond(api.CommitError(errors.New("dynamo timed out"), api.DefaultErrorCode, "Something went wrong"))

		body := DecodeJSONError(response.Body)
		Expect(body.Msg).To(Equal("Something went wrong"))
		Expect(body.ErrorDetails).To(ContainSubstring("dynamo timed out"))
	})

	It("panics on a code without a status", func() {
		Expect(func() {
			respond(api.CommitError(errors.New("x"), api.ErrorCode("made_up"), "x"))
		}).To(Panic())
	})
})
