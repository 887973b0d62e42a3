package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/forPelevin/hourmix/internal/event"
	"github.com/forPelevin/hourmix/internal/pipeline"
	"github.com/forPelevin/hourmix/internal/ui"
	"github.com/forPelevin/hourmix/internal/usecase"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, source string) error {
	transition, _ := cmd.Flags().GetString("transition")
	out, _ := cmd.Flags().GetString("out")
	fade, _ := cmd.Flags().GetFloat64("fade")
	quality, _ := cmd.Flags().GetString("quality")
	format, _ := cmd.Flags().GetString("format")
	normalize, _ := cmd.Flags().GetBool("normalize-audio")
	seed, _ := cmd.Flags().GetInt64("seed")
	plain, _ := cmd.Flags().GetBool("plain")
	ffmpegBin, _ := cmd.Flags().GetString("ffmpeg")
	ffprobeBin, _ := cmd.Flags().GetString("ffprobe")
	ytdlpBin, _ := cmd.Flags().GetString("ytdlp")

	cfg := pipeline.Config{
		Source:         source,
		TransitionClip: transition,
		Output:         out,
		FadeSeconds:    fade,
		Quality:        quality,
		Format:         format,
		NormalizeAudio: normalize,
		Seed:           seed,
		FFmpegPath:     flagOrEnv(ffmpegBin, "HOURMIX_FFMPEG"),
		FFprobePath:    flagOrEnv(ffprobeBin, "HOURMIX_FFPROBE"),
		YtdlpPath:      flagOrEnv(ytdlpBin, "HOURMIX_YTDLP"),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := event.NewQueue()
	type outcome struct {
		res usecase.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := pipeline.Run(ctx, cfg, events)
		done <- outcome{res: res, err: err}
	}()

	if plain {
		consumePlain(cmd.OutOrStdout(), events)
	} else if err := ui.Show(events, cancel); err != nil {
		// No usable terminal; fall back to line output.
		consumePlain(cmd.OutOrStdout(), events)
	}

	oc := <-done
	printSummary(cmd.OutOrStdout(), oc.res, oc.err)
	return oc.err
}

func printSummary(w io.Writer, res usecase.Result, err error) {
	switch {
	case err == nil:
		fmt.Fprintln(w, successStyle.Render("Power hour ready:"), res.OutputPath)
		if res.Failed > 0 {
			fmt.Fprintf(w, "%d clips encoded, %d failed\n", res.Encoded, res.Failed)
		} else {
			fmt.Fprintf(w, "%d clips encoded\n", res.Encoded)
		}
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, warningStyle.Render("Run cancelled."))
	}
}

func flagOrEnv(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}
