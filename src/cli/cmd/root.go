package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-remix/src/shared/remix"
)

type Processor interface {
	Process(ctx context.Context, upload remix.Upload) (remix.Result, error)
}

// ProcessorBuilder is deferred until a command runs, so --help works on a
// machine without spleeter or ffmpeg
type ProcessorBuilder func() (Processor, error)

func NewRootCommand(buildProcessor ProcessorBuilder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stemremix",
		Short:         "Remove or solo instruments in a song using stem separation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRemixCommand(buildProcessor))
	return rootCmd
}
