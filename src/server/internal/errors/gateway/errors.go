package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-remix/src/server/api_error"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	"github.com/veedubyou/stem-remix/src/server/internal/job/errors"
	"github.com/veedubyou/stem-remix/src/server/internal/process/errors"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:               http.StatusInternalServerError,
	processerrors.MissingFileCode:      http.StatusBadRequest,
	processerrors.UnsupportedFileCode:  http.StatusBadRequest,
	processerrors.EmptyRemovalSetCode:  http.StatusBadRequest,
	processerrors.InvalidActionCode:    http.StatusBadRequest,
	processerrors.StemUnavailableCode:  http.StatusBadRequest,
	processerrors.EmptySelectionCode:   http.StatusBadRequest,
	processerrors.BadFormCode:          http.StatusBadRequest,
	processerrors.UnknownPresetCode:    http.StatusInternalServerError,
	processerrors.SeparationFailedCode: http.StatusInternalServerError,
	processerrors.IncompleteOutputCode: http.StatusInternalServerError,
	processerrors.MixFailedCode:        http.StatusInternalServerError,
	joberrors.JobNotFoundCode:          http.StatusNotFound,
	joberrors.UploadFailedCode:         http.StatusInternalServerError,
	joberrors.QueueFailedCode:          http.StatusInternalServerError,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	if statusCode >= http.StatusInternalServerError {
		cerr.Log(err.InternalError)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}
