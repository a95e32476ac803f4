package envvar

import (
	"fmt"
	"os"
)

const (
	ENVIRONMENT                      = "ENVIRONMENT"
	PORT                             = "PORT"
	AWS_ACCESS_KEY_ID                = "AWS_ACCESS_KEY_ID"
	AWS_SECRET_ACCESS_KEY            = "AWS_SECRET_ACCESS_KEY"
	RABBITMQ_URL                     = "RABBITMQ_URL"
	RABBITMQ_QUEUE_NAME              = "RABBITMQ_QUEUE_NAME"
	GOOGLE_CLOUD_KEY                 = "GOOGLE_CLOUD_KEY"
	GOOGLE_CLOUD_STORAGE_BUCKET_NAME = "GOOGLE_CLOUD_STORAGE_BUCKET_NAME"
	REDIS_URL                        = "REDIS_URL"
	UPLOAD_DIR                       = "UPLOAD_DIR"
	OUTPUT_ROOT                      = "OUTPUT_ROOT"
	SPLEETER_BIN_PATH                = "SPLEETER_BIN_PATH"
	SPLEETER_MODEL_PATH              = "SPLEETER_MODEL_PATH"
	FFMPEG_BIN_PATH                  = "FFMPEG_BIN_PATH"
	WORKER_WORKING_DIR_PATH          = "WORKER_WORKING_DIR_PATH"
	MULTI_VOCALS_ONLY_PRESET         = "MULTI_VOCALS_ONLY_PRESET"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}

// Get returns the fallback when the variable is unset or empty
func Get(key string, fallback string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return fallback
	}

	return val
}
