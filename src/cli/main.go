package main

import (
	"context"
	"fmt"
	"os"

	"github.com/veedubyou/stem-remix/src/cli/cmd"
	"github.com/veedubyou/stem-remix/src/shared/config/envvar"
	"github.com/veedubyou/stem-remix/src/shared/config/local"
	"github.com/veedubyou/stem-remix/src/shared/lib/env"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
)

func buildPipeline() (cmd.Processor, error) {
	pipelineConfig, err := remix.PipelineConfigFromEnv()
	if err != nil {
		return nil, err
	}

	pipeline, err := remix.BuildPipeline(pipelineConfig)
	if err != nil {
		return nil, err
	}

	return pipeline, nil
}

func main() {
	// a local tool, runs against the project's working dir unless told otherwise
	if envvar.Get(envvar.ENVIRONMENT, "") == "" {
		_ = os.Setenv(envvar.ENVIRONMENT, string(env.Development))
	}

	if env.Get() == env.Development {
		local.LoadDotEnv()
	}

	rootCmd := cmd.NewRootCommand(buildPipeline)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if kind := remixerrors.KindOf(err); kind != remixerrors.UnknownKind {
			fmt.Fprintf(os.Stderr, "%s: %s\n", kind, remixerrors.UserMessage(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
