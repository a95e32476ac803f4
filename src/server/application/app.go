package application

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/veedubyou/stem-remix/src/server/internal/job/gateway"
	"github.com/veedubyou/stem-remix/src/server/internal/job/usecase"
	"github.com/veedubyou/stem-remix/src/server/internal/process/gateway"
	"github.com/veedubyou/stem-remix/src/server/internal/process/usecase"
	"github.com/veedubyou/stem-remix/src/shared/config"
	"github.com/veedubyou/stem-remix/src/shared/filestore"
	"github.com/veedubyou/stem-remix/src/shared/job/storage"
	"github.com/veedubyou/stem-remix/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-remix/src/shared/lib/rabbitmq"
	"github.com/veedubyou/stem-remix/src/shared/lib/storagepath"
	"github.com/veedubyou/stem-remix/src/shared/remix"
)

type HTTPMethod string

const (
	GET  HTTPMethod = "GET"
	POST HTTPMethod = "POST"
)

const maxUploadSize = "100M"

type App struct {
	echo      *echo.Echo
	port      string
	publisher *rabbitmq.QueuePublisher
}

type Config struct {
	DynamoConfig       config.Dynamo
	CloudStorageConfig config.CloudStorage
	RabbitMQURL        string
	RabbitMQQueueName  string
	Pipeline           remix.PipelineConfig
	CORSAllowedOrigins []string
	Port               string
	Log                bool
}

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

func NewApp(config Config) App {
	e := echo.New()

	if config.Log {
		e.Use(middleware.Logger())
	}

	e.Use(middleware.BodyLimit(maxUploadSize))

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		default:
			panic("unhandled http method!")
		}
	}

	pipeline := must(remix.BuildPipeline(config.Pipeline))
	publisher := makeRabbitMQPublisher(config)

	processGateway := makeProcessGateway(pipeline)
	jobGateway := makeJobGateway(config, publisher)

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// synchronous remix
	handleRoute(POST, "/process", processGateway.Process)
	e.Static(remix.StaticOutputPrefix, pipeline.OutputRoot())

	// queued remix
	handleRoute(POST, "/jobs", jobGateway.CreateJob)
	handleRoute(GET, "/jobs/:id", func(c echo.Context) error {
		jobID := c.Param("id")
		return jobGateway.GetJob(c, jobID)
	})

	return App{
		echo:      e,
		port:      config.Port,
		publisher: publisher,
	}
}

func (a *App) Start() error {
	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

func (a *App) Stop() error {
	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	if err := a.publisher.Close(); err != nil {
		return errors.Wrap(err, "Failed to close rabbitMQ publisher")
	}

	return nil
}

func makeRabbitMQPublisher(config Config) *rabbitmq.QueuePublisher {
	publisher, err := rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName)
	if err != nil {
		panic(errors.Wrap(err, "Failed to create rabbitMQ publisher"))
	}

	return publisher
}

func makeJobStore(dynamoConfig config.Dynamo) jobstorage.DB {
	jobDB := jobstorage.NewDB(dynamolib.Connect(dynamoConfig.AWSConfig()))
	if err := jobDB.EnsureTable(context.Background()); err != nil {
		panic(errors.Wrap(err, "Failed to prepare the jobs table"))
	}

	return jobDB
}

func makeFileStore(cloudStorageConfig config.CloudStorage) filestore.GoogleFileStore {
	return must(filestore.NewGoogleFileStore(
		context.Background(),
		cloudStorageConfig.GetBucket(),
		cloudStorageConfig.ClientOptions()...,
	))
}

func makeProcessGateway(pipeline remix.Pipeline) processgateway.Gateway {
	return processgateway.NewGateway(processusecase.NewUsecase(pipeline))
}

func makeJobGateway(config Config, publisher rabbitmq.Publisher) jobgateway.Gateway {
	pathGenerator := storagepath.Generator{
		Host:   config.CloudStorageConfig.GetStorageHost(),
		Bucket: config.CloudStorageConfig.GetBucket(),
	}

	jobUsecase := jobusecase.NewUsecase(
		makeJobStore(config.DynamoConfig),
		makeFileStore(config.CloudStorageConfig),
		publisher,
		pathGenerator)

	return jobgateway.NewGateway(jobUsecase)
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType},
	})
}
