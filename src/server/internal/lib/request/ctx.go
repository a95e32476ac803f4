package request

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	"github.com/veedubyou/stem-remix/src/server/internal/process/errors"
	"github.com/veedubyou/stem-remix/src/shared/lib/env"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	remixrequest "github.com/veedubyou/stem-remix/src/shared/remix/request"
)

const (
	AudioFileField   = "audio_file"
	MultiField       = "multi"
	RemoveMultiField = "remove_multi"
	InstrumentField  = "instrument"
	ActionField      = "action"
	KaraokeField     = "karaoke"
)

func Context(c echo.Context) context.Context {
	switch env.Get() {
	case env.Production, env.Test:
		return c.Request().Context()

	case env.Development:
		// separation runs for minutes, don't let a closed browser tab
		// cancel it while debugging
		return context.Background()

	default:
		panic("Unrecognized environment")
	}
}

// FormUpload reads the upload form. A missing file is not an error here,
// the pipeline reports it along with the other validation failures.
// The returned close func must be called once the upload has been consumed.
func FormUpload(c echo.Context) (remix.Upload, func(), *api.Error) {
	noop := func() {}

	form, err := c.MultipartForm()
	if err != nil {
		err = errors.Wrap(err, "Failed to parse multipart form")
		return remix.Upload{}, noop, api.CommitError(err,
			processerrors.BadFormCode,
			"The upload form could not be read")
	}

	fields := remixrequest.Raw{
		Multi:      remixrequest.IsTruthy(firstValue(form.Value, MultiField)),
		Removals:   form.Value[RemoveMultiField],
		Instrument: valueOr(form.Value, InstrumentField, string(remixrequest.DefaultInstrument)),
		Action:     firstValue(form.Value, ActionField),
		Karaoke:    remixrequest.IsTruthy(firstValue(form.Value, KaraokeField)),
	}

	upload := remix.Upload{Fields: fields}

	fileHeader, err := c.FormFile(AudioFileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return upload, noop, nil
		}

		err = errors.Wrap(err, "Failed to read the uploaded file")
		return remix.Upload{}, noop, api.CommitError(err,
			processerrors.BadFormCode,
			"The uploaded file could not be read")
	}

	file, err := fileHeader.Open()
	if err != nil {
		err = errors.Wrap(err, "Failed to open the uploaded file")
		return remix.Upload{}, noop, api.CommitError(err,
			processerrors.BadFormCode,
			"The uploaded file could not be read")
	}

	upload.FileName = fileHeader.Filename
	upload.Content = file

	return upload, func() { _ = file.Close() }, nil
}

func firstValue(values map[string][]string, key string) string {
	if len(values[key]) == 0 {
		return ""
	}

	return values[key][0]
}

// valueOr only falls back when the field is absent, an empty value is returned as sent
func valueOr(values map[string][]string, key string, fallback string) string {
	if len(values[key]) == 0 {
		return fallback
	}

	return values[key][0]
}
