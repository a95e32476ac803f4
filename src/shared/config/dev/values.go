package dev

import "github.com/veedubyou/stem-remix/src/shared/config"

// DynamoDB
const (
	DynamoAccessKeyID     = "local"
	DynamoSecretAccessKey = "local"
	DynamoDBHost          = "http://localhost:8000"
	DynamoDBRegion        = "localhost"
)

var DynamoConfig = config.LocalDynamo{
	AccessKeyID:     DynamoAccessKeyID,
	SecretAccessKey: DynamoSecretAccessKey,
	Region:          DynamoDBRegion,
	Host:            DynamoDBHost,
}

// RabbitMQ
const (
	RabbitMQHost      = "amqp://localhost:5672"
	RabbitMQQueueName = "stem-remix-jobs-dev"
)

// Cloud storage, backed by fake-gcs-server
const (
	CloudStorageHost     = "http://localhost:4443"
	CloudStorageEndpoint = "http://localhost:4443/storage/v1"
	CloudStorageBucket   = "stem-remix-dev"
)

var CloudStorageConfig = config.LocalCloudStorage{
	StorageHost:  CloudStorageHost,
	HostEndpoint: CloudStorageEndpoint,
	BucketName:   CloudStorageBucket,
}

// Server
const (
	Port = ":5000"
)
