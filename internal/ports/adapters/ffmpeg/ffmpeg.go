package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/forPelevin/hourmix/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe, buildProbeArgs(path)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	if s == "N/A" {
		return 0, fmt.Errorf("ffprobe duration: no container duration for %s", path)
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// AnalyzeLoudness runs the loudnorm measurement pass. The combined
// output is returned even on failure so callers can keep it as a run
// artifact.
func (a *Adapter) AnalyzeLoudness(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg, buildAnalyzeArgs(path)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return string(b), fmt.Errorf("ffmpeg loudnorm analyze: %w", err)
	}
	return string(b), nil
}

func (a *Adapter) EncodeClip(ctx context.Context, job types.ClipJob) (string, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg, buildEncodeArgs(job)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return string(b), fmt.Errorf("ffmpeg encode clip: %w", err)
	}
	return string(b), nil
}

func (a *Adapter) Concat(ctx context.Context, listPath, outPath string) (string, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg, buildConcatArgs(listPath, outPath)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return string(b), fmt.Errorf("ffmpeg concat: %w", err)
	}
	return string(b), nil
}

func buildProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

func buildAnalyzeArgs(path string) []string {
	return []string{
		"-i", path,
		"-af", "loudnorm=I=-23:LRA=7:print_format=json",
		"-f", "null",
		"-",
	}
}

func buildEncodeArgs(job types.ClipJob) []string {
	rec := job.Loudness
	if rec == nil {
		def := types.DefaultLoudness()
		rec = &def
	}
	fadeOutStart := job.DurationSeconds - job.FadeSeconds
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	vf := fmt.Sprintf("scale=1280:720, fade=t=in:st=0:d=%s, fade=t=out:st=%s:d=%s",
		fmtSeconds(job.FadeSeconds), fmtSeconds(fadeOutStart), fmtSeconds(job.FadeSeconds))
	af := fmt.Sprintf("loudnorm=I=-23:LRA=7:TP=-1.5:measured_I=%s:measured_LRA=%s:measured_TP=%s:measured_thresh=%s:offset=%s:linear=true:print_format=summary",
		rec.InputI, rec.InputLRA, rec.InputTP, rec.InputThresh, rec.TargetOffset)
	return []string{
		"-y",
		"-ss", fmtSeconds(job.StartSeconds),
		"-t", fmtSeconds(job.DurationSeconds),
		"-i", job.SourcePath,
		"-vf", vf,
		"-af", af,
		"-r", "30",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "192k",
		"-ar", "48000",
		"-ac", "2",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		job.OutputPath,
	}
}

func buildConcatArgs(listPath, outPath string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	}
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
