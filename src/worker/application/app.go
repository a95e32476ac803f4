package application

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-remix/src/shared/config"
	"github.com/veedubyou/stem-remix/src/shared/filestore"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/job/storage"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-remix/src/shared/lib/storagepath"
	"github.com/veedubyou/stem-remix/src/shared/lib/working_dir"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	"github.com/veedubyou/stem-remix/src/worker/internal/application/jobs/job_router"
	remixjob "github.com/veedubyou/stem-remix/src/worker/internal/application/jobs/remix"
	"github.com/veedubyou/stem-remix/src/worker/internal/application/jobs/start"
	"github.com/veedubyou/stem-remix/src/worker/internal/application/worker"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker *worker.QueueWorker
}

type Config struct {
	RabbitMQURL        string
	RabbitMQQueueName  string
	DynamoConfig       config.Dynamo
	CloudStorageConfig config.CloudStorage
	Pipeline           remix.PipelineConfig

	WorkingDirPath string
}

func NewApp(config Config) App {
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		worker: newWorker(config, consumerConn),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newWorker(config Config, consumerConn *amqp091.Connection) *worker.QueueWorker {
	jobStore := jobstorage.NewDB(dynamolib.Connect(config.DynamoConfig.AWSConfig()))
	if err := jobStore.EnsureTable(context.Background()); err != nil {
		panic(cerr.Wrap(err).Error("Failed to prepare the jobs table"))
	}

	return must(worker.NewQueueWorkerFromConnection(
		consumerConn,
		config.RabbitMQQueueName,
		newJobRouter(config, jobStore)))
}

func newGoogleFileStore(cloudStorageConfig config.CloudStorage) filestore.GoogleFileStore {
	return must(filestore.NewGoogleFileStore(
		context.Background(),
		cloudStorageConfig.GetBucket(),
		cloudStorageConfig.ClientOptions()...,
	))
}

func newJobRouter(config Config, jobStore jobentity.Store) job_router.JobRouter {
	return job_router.NewJobRouter(
		jobStore,
		newStartJobHandler(jobStore),
		newRemixJobHandler(config, jobStore))
}

func newStartJobHandler(jobStore jobentity.Store) start.JobHandler {
	return start.NewJobHandler(jobStore)
}

func newRemixJobHandler(config Config, jobStore jobentity.Store) remixjob.JobHandler {
	pathGenerator := storagepath.Generator{
		Host:   config.CloudStorageConfig.GetStorageHost(),
		Bucket: config.CloudStorageConfig.GetBucket(),
	}

	return remixjob.NewJobHandler(
		jobStore,
		newGoogleFileStore(config.CloudStorageConfig),
		must(remix.BuildPipeline(config.Pipeline)),
		pathGenerator,
		must(working_dir.NewWorkingDir(config.WorkingDirPath)),
	)
}
