package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/remix"
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
)

type remixFlags struct {
	removals   []string
	instrument string
	action     string
	karaoke    bool
}

func newRemixCommand(buildProcessor ProcessorBuilder) *cobra.Command {
	flags := remixFlags{}

	remixCmd := &cobra.Command{
		Use:   "remix <audio file>",
		Short: "Separate a song and mix it back without the chosen instruments",
		Long: `Separates the song into stems and mixes them back together.

Pass --remove one or more times to drop several instruments at once.
Otherwise --instrument and --action pick one instrument to remove or solo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			processor, err := buildProcessor()
			if err != nil {
				return cerr.Wrap(err).Error("Failed to set up the remix pipeline")
			}

			return runRemix(cmd, processor, args[0], flags)
		},
	}

	remixCmd.Flags().StringSliceVar(&flags.removals, "remove", nil, "instrument to remove, repeatable")
	remixCmd.Flags().StringVar(&flags.instrument, "instrument", string(request.DefaultInstrument), "instrument to remove or solo")
	remixCmd.Flags().StringVar(&flags.action, "action", string(request.RemoveAction), "remove or solo")
	remixCmd.Flags().BoolVar(&flags.karaoke, "karaoke", false, "use the faster 2 stem model when soloing or removing vocals")
	remixCmd.MarkFlagsMutuallyExclusive("remove", "instrument")

	return remixCmd
}

func runRemix(cmd *cobra.Command, processor Processor, audioPath string, flags remixFlags) error {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return cerr.Field("path", audioPath).Wrap(err).Error("Failed to open audio file")
	}
	defer audioFile.Close()

	upload := remix.Upload{
		FileName: filepath.Base(audioPath),
		Content:  audioFile,
		Fields: request.Raw{
			Multi:      len(flags.removals) > 0,
			Removals:   flags.removals,
			Instrument: flags.instrument,
			Action:     flags.action,
			Karaoke:    flags.karaoke,
		},
	}

	result, err := processor.Process(cmd.Context(), upload)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s stems): %s\n", result.Label, result.Preset, result.MixPath)
	return nil
}
