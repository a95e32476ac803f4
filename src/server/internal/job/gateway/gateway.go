package jobgateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-remix/src/server/internal/job/usecase"
	"github.com/veedubyou/stem-remix/src/server/internal/lib/request"
)

type Gateway struct {
	usecase jobusecase.Usecase
}

func NewGateway(usecase jobusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) CreateJob(c echo.Context) error {
	ctx := request.Context(c)

	upload, closeUpload, apiErr := request.FormUpload(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}
	defer closeUpload()

	job, apiErr := g.usecase.CreateJob(ctx, upload)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to create remix job")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusAccepted, job)
}

func (g Gateway) GetJob(c echo.Context, jobID string) error {
	ctx := request.Context(c)

	job, apiErr := g.usecase.GetJob(ctx, jobID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}
