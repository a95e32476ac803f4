package remix

import (
	"context"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"
	"github.com/veedubyou/stem-remix/src/shared/config"
	"github.com/veedubyou/stem-remix/src/shared/config/envvar"
	"github.com/veedubyou/stem-remix/src/shared/config/local"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/lib/env"
	"github.com/veedubyou/stem-remix/src/shared/lib/executor"
	"github.com/veedubyou/stem-remix/src/shared/remix/mix"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

const (
	leaseTTL           = 30 * time.Minute
	leaseRetryInterval = 500 * time.Millisecond
)

type PipelineConfig struct {
	UploadDir        string
	OutputRoot       string
	SpleeterBinPath  string
	SpleeterModelDir string
	FFmpegBinPath    string
	// RedisURL switches the stem lease from in-process to redis when set
	RedisURL string
	Policy   stem.SelectionPolicy
}

// PipelineConfigFromEnv reads the pipeline settings for the current environment.
// Outside production, binaries are looked up on the PATH and directories
// default to the project's working dir.
func PipelineConfigFromEnv() (PipelineConfig, error) {
	policy := stem.DefaultSelectionPolicy()
	if value := envvar.Get(envvar.MULTI_VOCALS_ONLY_PRESET, ""); value != "" {
		preset, err := stem.ParsePreset(value)
		if err != nil {
			return PipelineConfig{}, cerr.Field("value", value).
				Wrap(err).Error("Invalid multi mode vocals-only preset")
		}
		policy.MultiVocalsOnlyPreset = preset
	}

	switch env.Get() {
	case env.Production:
		return PipelineConfig{
			UploadDir:        envvar.MustGet(envvar.UPLOAD_DIR),
			OutputRoot:       envvar.MustGet(envvar.OUTPUT_ROOT),
			SpleeterBinPath:  envvar.MustGet(envvar.SPLEETER_BIN_PATH),
			SpleeterModelDir: envvar.MustGet(envvar.SPLEETER_MODEL_PATH),
			FFmpegBinPath:    envvar.MustGet(envvar.FFMPEG_BIN_PATH),
			RedisURL:         envvar.Get(envvar.REDIS_URL, ""),
			Policy:           policy,
		}, nil

	case env.Development, env.Test:
		wd := filepath.Join(local.ProjectRoot(), "wd")
		return PipelineConfig{
			UploadDir:        envvar.Get(envvar.UPLOAD_DIR, filepath.Join(wd, "uploads")),
			OutputRoot:       envvar.Get(envvar.OUTPUT_ROOT, filepath.Join(wd, "output")),
			SpleeterBinPath:  envvar.Get(envvar.SPLEETER_BIN_PATH, ""),
			SpleeterModelDir: envvar.Get(envvar.SPLEETER_MODEL_PATH, filepath.Join(wd, "models")),
			FFmpegBinPath:    envvar.Get(envvar.FFMPEG_BIN_PATH, ""),
			RedisURL:         envvar.Get(envvar.REDIS_URL, ""),
			Policy:           policy,
		}, nil

	default:
		panic("Unrecognized environment")
	}
}

// BuildPipeline wires the real separation and mixing tools into a pipeline
func BuildPipeline(pipelineConfig PipelineConfig) (Pipeline, error) {
	if pipelineConfig.SpleeterBinPath == "" {
		pipelineConfig.SpleeterBinPath = config.SpleeterPath()
	}

	if pipelineConfig.FFmpegBinPath == "" {
		pipelineConfig.FFmpegBinPath = config.FFmpegPath()
	}

	outputRoot, err := filepath.Abs(pipelineConfig.OutputRoot)
	if err != nil {
		return Pipeline{}, cerr.Field("output_root", pipelineConfig.OutputRoot).
			Wrap(err).Error("Cannot convert output root to absolute format")
	}

	locker, err := newLocker(pipelineConfig.RedisURL)
	if err != nil {
		return Pipeline{}, err
	}

	commandExecutor := executor.BinaryFileExecutor{}
	engineFactory := separation.NewSpleeterFactory(pipelineConfig.SpleeterBinPath, pipelineConfig.SpleeterModelDir, commandExecutor)
	cacheManager := separation.NewCacheManager(outputRoot, separation.NewRegistry(engineFactory), locker)
	mixer := mix.NewInvoker(mix.NewFFmpegMixer(pipelineConfig.FFmpegBinPath, commandExecutor))

	return NewPipeline(pipelineConfig.UploadDir, cacheManager, mixer, pipelineConfig.Policy), nil
}

func newLocker(redisURL string) (separation.Locker, error) {
	if redisURL == "" {
		return separation.NewKeyedMutex(), nil
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, cerr.Wrap(err).Error("Failed to parse redis URL")
	}

	client := redis.NewClient(options)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, cerr.Wrap(err).Error("Failed to reach redis")
	}

	log.Info("Using redis for stem leases")
	return separation.NewRedisLease(client, leaseTTL, leaseRetryInterval), nil
}

// OutputRoot is where stems and mixes are written
func (p Pipeline) OutputRoot() string {
	return p.cacheManager.OutputRoot()
}
