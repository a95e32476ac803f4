package main

import (
	"path/filepath"

	"github.com/veedubyou/stem-remix/src/shared/config"
	"github.com/veedubyou/stem-remix/src/shared/config/dev"
	"github.com/veedubyou/stem-remix/src/shared/config/envvar"
	"github.com/veedubyou/stem-remix/src/shared/config/local"
	"github.com/veedubyou/stem-remix/src/shared/config/prod"
	"github.com/veedubyou/stem-remix/src/shared/lib/env"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	"github.com/veedubyou/stem-remix/src/worker/application"
)

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			CloudStorageConfig: config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			},
			RabbitMQURL:       envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			WorkingDirPath:    envvar.MustGet(envvar.WORKER_WORKING_DIR_PATH),
		}

	case env.Development:
		local.LoadDotEnv()

		appConfig = application.Config{
			DynamoConfig:       dev.DynamoConfig,
			CloudStorageConfig: dev.CloudStorageConfig,
			RabbitMQURL:        dev.RabbitMQHost,
			RabbitMQQueueName:  dev.RabbitMQQueueName,
			WorkingDirPath:     filepath.Join(local.ProjectRoot(), "wd", "worker"),
		}

	default:
		panic("Unexpected environment")
	}

	pipelineConfig, err := remix.PipelineConfigFromEnv()
	if err != nil {
		panic(err)
	}
	appConfig.Pipeline = pipelineConfig

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
