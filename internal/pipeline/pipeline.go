package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/forPelevin/hourmix/internal/event"
	"github.com/forPelevin/hourmix/internal/ports"
	"github.com/forPelevin/hourmix/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/hourmix/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/hourmix/internal/usecase"
)

type Config struct {
	Source         string
	TransitionClip string
	Output         string
	FadeSeconds    float64
	Quality        string
	Format         string
	NormalizeAudio bool

	// Seed fixes candidate selection and segment start times. Zero picks
	// one from the clock.
	Seed int64

	FFmpegPath  string
	FFprobePath string
	YtdlpPath   string
}

var (
	qualities = map[string]bool{"low": true, "medium": true, "high": true}
	formats   = map[string]bool{"mp4": true, "avi": true, "mkv": true}
)

func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("source is empty")
	}
	if c.TransitionClip == "" {
		return errors.New("transition clip is required")
	}
	if _, err := os.Stat(c.TransitionClip); err != nil {
		return fmt.Errorf("stat transition clip: %w", err)
	}
	if c.Output == "" {
		return errors.New("output is empty")
	}
	if c.FadeSeconds < 0 || c.FadeSeconds > 10 {
		return fmt.Errorf("fade must be within [0, 10] seconds")
	}
	if !qualities[c.Quality] {
		return fmt.Errorf("unknown quality %q", c.Quality)
	}
	if !formats[c.Format] {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// Run wires the external-tool adapters into one pipeline run and blocks
// until it finishes. Progress arrives on events, which is closed when Run
// returns.
func Run(ctx context.Context, cfg Config, events *event.Queue) (usecase.Result, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	uc := usecase.New(usecase.Deps{
		Media:   ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Fetcher: ytdlp.New(cfg.YtdlpPath),
		Events:  events,
		Rand:    rand.New(rand.NewSource(seed)),
	})
	return uc.Run(ctx, usecase.Input{
		Source:         cfg.Source,
		TransitionClip: cfg.TransitionClip,
		OutputPath:     cfg.Output,
		FadeSeconds:    cfg.FadeSeconds,
		Quality:        cfg.Quality,
		Format:         cfg.Format,
		NormalizeAudio: cfg.NormalizeAudio,
		FFmpegBin:      cfg.FFmpegPath,
		FFprobeBin:     cfg.FFprobePath,
		YtdlpBin:       cfg.YtdlpPath,
	})
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.PlaylistFetcher = (*ytdlp.Adapter)(nil)
