package separation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/lib/executor"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

var _ Engine = SpleeterEngine{}

var spleeterParamMap = map[stem.Preset]string{
	stem.TwoStems:  "spleeter:2stems",
	stem.FourStems: "spleeter:4stems",
	stem.FiveStems: "spleeter:5stems",
}

const spleeterFileFormat = "{filename}/{instrument}.{codec}"

// NewSpleeterFactory builds spleeter engines. modelDir is where spleeter
// downloads and caches pretrained models, one subdirectory per preset.
func NewSpleeterFactory(spleeterBinPath string, modelDir string, commandExecutor executor.Executor) EngineFactory {
	return func(ctx context.Context, preset stem.Preset) (Engine, error) {
		errctx := cerr.Field("preset", preset).Field("spleeter_bin_path", spleeterBinPath)

		splitParam, ok := spleeterParamMap[preset]
		if !ok {
			return nil, errctx.Error("Invalid preset passed in!")
		}

		if _, err := os.Stat(spleeterBinPath); err != nil {
			return nil, errctx.Wrap(err).Error("Spleeter binary is not accessible")
		}

		absModelDir, err := filepath.Abs(modelDir)
		if err != nil {
			return nil, errctx.Wrap(err).Error("Cannot convert model dir to absolute format")
		}

		if err := os.MkdirAll(absModelDir, os.ModePerm); err != nil {
			return nil, errctx.Field("model_dir", absModelDir).
				Wrap(err).Error("Failed to create model dir")
		}

		return SpleeterEngine{
			spleeterBinPath: spleeterBinPath,
			splitParam:      splitParam,
			modelDir:        absModelDir,
			executor:        commandExecutor,
		}, nil
	}
}

type SpleeterEngine struct {
	spleeterBinPath string
	splitParam      string
	modelDir        string
	executor        executor.Executor
}

func (s SpleeterEngine) Separate(ctx context.Context, inputPath string, outputRoot string) error {
	absInputPath, err := filepath.Abs(inputPath)
	if err != nil {
		return cerr.Wrap(err).Error("Cannot convert source path to absolute format")
	}

	errctx := cerr.Field("original_filepath", absInputPath)

	absOutputRoot, err := filepath.Abs(outputRoot)
	if err != nil {
		return errctx.Wrap(err).Error("Cannot convert destination path to absolute format")
	}

	// separating is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return cerr.Wrap(ctx.Err()).Error("Context cancelled before separation could happen")
	}

	logger := log.WithFields(log.Fields{
		"sourcePath": absInputPath,
		"destPath":   absOutputRoot,
		"splitParam": s.splitParam,
	})

	logger.Info("Running spleeter command")

	args := []string{"separate", "-p", s.splitParam, "-o", absOutputRoot, "-c", "wav", "-f", spleeterFileFormat, absInputPath}

	errctx = errctx.Field("spleeter_bin_path", s.spleeterBinPath).Field("spleeter_args", args)

	cmd := s.executor.Command(ctx, s.spleeterBinPath, args...)
	cmd.SetDir(s.modelDir)
	cmd.SetEnv("MODEL_PATH=" + s.modelDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("spleeter_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running spleeter: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished spleeter command")

	return nil
}
