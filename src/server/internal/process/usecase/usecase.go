package processusecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	"github.com/veedubyou/stem-remix/src/server/internal/process/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix"
)

type Usecase struct {
	pipeline remix.Pipeline
}

func NewUsecase(pipeline remix.Pipeline) Usecase {
	return Usecase{
		pipeline: pipeline,
	}
}

func (u Usecase) Process(ctx context.Context, upload remix.Upload) (remix.Result, *api.Error) {
	result, err := u.pipeline.Process(ctx, upload)
	if err != nil {
		err = errors.Wrap(err, "Failed to process remix request")
		return remix.Result{}, processerrors.FromRemixError(err)
	}

	return result, nil
}
