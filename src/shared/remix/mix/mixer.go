package mix

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-remix/src/shared/lib/executor"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Mixer sums its inputs into one file
//
//counterfeiter:generate . Mixer
type Mixer interface {
	Combine(ctx context.Context, inputPaths []string, outputPath string) error
}

var _ Mixer = FFmpegMixer{}

func NewFFmpegMixer(ffmpegBinPath string, commandExecutor executor.Executor) FFmpegMixer {
	return FFmpegMixer{
		ffmpegBinPath: ffmpegBinPath,
		executor:      commandExecutor,
	}
}

type FFmpegMixer struct {
	ffmpegBinPath string
	executor      executor.Executor
}

// FilterGraph sums n inputs unweighted. normalize=0 keeps each stem at its
// original level; loudness matching is not this stage's job.
func FilterGraph(n int) string {
	builder := strings.Builder{}
	for i := 0; i < n; i++ {
		builder.WriteString(fmt.Sprintf("[%d:a]", i))
	}

	builder.WriteString(fmt.Sprintf("amix=inputs=%d:normalize=0[a]", n))
	return builder.String()
}

func (f FFmpegMixer) Combine(ctx context.Context, inputPaths []string, outputPath string) error {
	args := []string{"-y"}
	for _, inputPath := range inputPaths {
		args = append(args, "-i", inputPath)
	}
	args = append(args, "-filter_complex", FilterGraph(len(inputPaths)), "-map", "[a]", outputPath)

	logger := log.WithFields(log.Fields{
		"inputs": inputPaths,
		"output": outputPath,
	})
	logger.Info("Running ffmpeg mix")

	_, stderr, err := f.executor.Command(ctx, f.ffmpegBinPath, args...).Output()
	if err != nil {
		diagnostic := string(stderr)
		if diagnostic == "" {
			diagnostic = err.Error()
		}

		return &remixerrors.MixFailedError{Diagnostic: diagnostic}
	}

	logger.Info("Finished ffmpeg mix")
	return nil
}

// Invoker is the only writer of mix files
type Invoker struct {
	mixer Mixer
}

func NewInvoker(mixer Mixer) Invoker {
	return Invoker{mixer: mixer}
}

// Mix never retries. A failure carries the mixer's diagnostic text as is.
func (i Invoker) Mix(ctx context.Context, inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return remixerrors.ErrNoInputs
	}

	err := i.mixer.Combine(ctx, inputPaths, outputPath)
	if err == nil {
		return nil
	}

	var mixFailedErr *remixerrors.MixFailedError
	if errors.As(err, &mixFailedErr) {
		return mixFailedErr
	}

	return &remixerrors.MixFailedError{Diagnostic: err.Error()}
}
