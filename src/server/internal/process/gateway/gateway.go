package processgateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-remix/src/server/internal/lib/request"
	"github.com/veedubyou/stem-remix/src/server/internal/process/usecase"
)

type Gateway struct {
	usecase processusecase.Usecase
}

func NewGateway(usecase processusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) Process(c echo.Context) error {
	ctx := request.Context(c)

	upload, closeUpload, apiErr := request.FormUpload(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}
	defer closeUpload()

	result, apiErr := g.usecase.Process(ctx, upload)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, result)
}
