package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "hourmix <source>",
		Short:        "Build a power hour video from a folder or playlist",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("transition", "", "Transition clip played between segments (required)")
	_ = root.MarkFlagRequired("transition")
	root.Flags().String("out", "powerhour.mp4", "Output file")
	root.Flags().Float64("fade", 3.0, "Fade in/out duration in seconds")
	root.Flags().String("quality", "medium", "Encode quality: low, medium or high")
	root.Flags().String("format", "mp4", "Container format: mp4, avi or mkv")
	root.Flags().Bool("normalize-audio", true, "Normalize loudness across clips")
	root.Flags().Int64("seed", 0, "Seed for clip selection and start times (0 = random)")
	root.Flags().Bool("plain", false, "Plain line output instead of the interactive view")

	root.PersistentFlags().String("ffmpeg", "", "ffmpeg binary (default $HOURMIX_FFMPEG, then PATH)")
	root.PersistentFlags().String("ffprobe", "", "ffprobe binary (default $HOURMIX_FFPROBE, then PATH)")
	root.PersistentFlags().String("ytdlp", "", "yt-dlp binary (default $HOURMIX_YTDLP, then PATH)")

	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		// Cancellation is reported by the run summary already.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
