package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/hourmix/internal/domain/concat"
	"github.com/forPelevin/hourmix/internal/domain/loudness"
	"github.com/forPelevin/hourmix/internal/domain/selection"
	"github.com/forPelevin/hourmix/internal/event"
	"github.com/forPelevin/hourmix/internal/ports"
	"github.com/forPelevin/hourmix/internal/run"
	"github.com/forPelevin/hourmix/internal/types"
)

var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrNoCandidates      = errors.New("no video files found")
	ErrNoValidCandidates = errors.New("no valid videos found (need duration >= 80 seconds)")
	ErrNoEncodedClips    = errors.New("no clips were successfully encoded")
	ErrConcatFailed      = errors.New("concatenation failed")
)

type Deps struct {
	Media   ports.MediaTool
	Fetcher ports.PlaylistFetcher
	Events  *event.Queue
	Rand    *rand.Rand
	// LookPath resolves external tool names. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.LookPath == nil {
		d.LookPath = exec.LookPath
	}
	return Usecase{d: d}
}

type Input struct {
	Source         string
	TransitionClip string
	OutputPath     string
	FadeSeconds    float64
	Quality        string
	Format         string
	NormalizeAudio bool
	FFmpegBin      string
	FFprobeBin     string
	YtdlpBin       string
}

type Result struct {
	OutputPath string
	Stage      run.Stage
	Selected   int
	Survivors  int
	Encoded    int
	Failed     int
}

// Run executes the whole pipeline and closes the event stream when it
// returns. Cancellation surfaces as context.Canceled with the run ending
// in the cancelled stage; every other error ends it in the failed stage
// after a single Error event.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	defer u.d.Events.Close()

	tr := run.NewTracker()
	var res Result
	err := u.run(ctx, in, tr, &res)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			err = context.Canceled
			_ = tr.To(run.StageCancelled)
		} else {
			u.d.Events.Push(event.Error{Text: err.Error()})
			_ = tr.To(run.StageFailed)
		}
	}
	res.Stage = tr.Stage()
	return res, err
}

func (u Usecase) run(ctx context.Context, in Input, tr *run.Tracker, res *Result) error {
	if err := tr.To(run.StageResolving); err != nil {
		return err
	}
	u.status("Checking dependencies...")
	if err := u.checkTools(in); err != nil {
		return err
	}

	ws, err := newWorkspace()
	if err != nil {
		return err
	}
	defer os.RemoveAll(ws.root)

	srcDir, err := u.resolve(ctx, in, ws)
	if err != nil {
		return err
	}

	if err := tr.To(run.StageScanning); err != nil {
		return err
	}
	u.status("Scanning video files...")
	paths, err := scanDir(srcDir)
	if err != nil {
		return err
	}
	selected := selection.Sample(paths, selection.MaxCandidates, u.d.Rand)
	res.Selected = len(selected)

	if err := tr.To(run.StageAnalyzing); err != nil {
		return err
	}
	survivors, records, err := u.analyze(ctx, tr, in.TransitionClip, selected, ws)
	if err != nil {
		return err
	}
	res.Survivors = len(survivors)

	if err := tr.To(run.StageEncoding); err != nil {
		return err
	}
	encoded, err := u.encode(ctx, tr, in, survivors, records, ws, res)
	if err != nil {
		return err
	}

	if err := tr.To(run.StageConcatenating); err != nil {
		return err
	}
	if err := u.concatenate(ctx, in.OutputPath, encoded, ws); err != nil {
		return err
	}

	if err := tr.To(run.StageDone); err != nil {
		return err
	}
	res.OutputPath = in.OutputPath
	u.d.Events.Push(event.Completed{OutputPath: in.OutputPath})
	return nil
}

// checkTools verifies the external binaries before any filesystem work.
// yt-dlp is only required when the source is remote.
func (u Usecase) checkTools(in Input) error {
	tools := []string{binOr(in.FFmpegBin, "ffmpeg"), binOr(in.FFprobeBin, "ffprobe")}
	if isRemote(in.Source) {
		tools = append(tools, binOr(in.YtdlpBin, "yt-dlp"))
	}
	for _, tool := range tools {
		if _, err := u.d.LookPath(tool); err != nil {
			return fmt.Errorf("required tool not found: %s", tool)
		}
	}
	return nil
}

func (u Usecase) resolve(ctx context.Context, in Input, ws workspace) (string, error) {
	if !isRemote(in.Source) {
		fi, err := os.Stat(in.Source)
		if err != nil || !fi.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, in.Source)
		}
		return in.Source, nil
	}

	u.status("Downloading videos...")
	dir := filepath.Join(ws.root, "downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	err := u.d.Fetcher.Fetch(ctx, in.Source, dir, func(line string) {
		if strings.HasPrefix(line, "[download]") {
			u.logLine(event.LevelInfo, line)
		}
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}

func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || selection.Housekeeping(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, ErrNoCandidates
	}
	return paths, nil
}

// analyze probes every selected candidate, keeps the ones long enough for
// a segment, and measures loudness for the keepers and the transition
// clip. Probe and analysis failures skip the item, never the run.
func (u Usecase) analyze(ctx context.Context, tr *run.Tracker, transition string, selected []string, ws workspace) ([]types.Candidate, map[string]*types.LoudnessRecord, error) {
	u.status("Analyzing videos...")

	records := make(map[string]*types.LoudnessRecord, len(selected)+1)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if rec := u.analyzeFile(ctx, transition, ws); rec != nil {
		records[transition] = rec
	}

	var survivors []types.Candidate
	total := len(selected)
	for i, path := range selected {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		tr.SetProgress(i+1, total)
		u.d.Events.Push(event.Progress{Current: i + 1, Total: total})
		u.status(fmt.Sprintf("Analyzing video %d/%d", i+1, total))

		base := filepath.Base(path)
		dur, err := u.d.Media.ProbeDuration(ctx, path)
		switch {
		case err != nil:
			u.logLine(event.LevelWarning, "Skipping "+base+": duration unavailable")
		case !selection.Eligible(dur):
			u.logLine(event.LevelInfo, "Skipping "+base+": shorter than 80 seconds")
		default:
			survivors = append(survivors, types.Candidate{Path: path, DurationSeconds: dur})
			if rec := u.analyzeFile(ctx, path, ws); rec != nil {
				records[path] = rec
			}
		}
		u.d.Events.Push(event.SubProgress{Percent: float64(i+1) / float64(total) * 100})
	}
	if len(survivors) == 0 {
		return nil, nil, ErrNoValidCandidates
	}
	return survivors, records, nil
}

// analyzeFile runs the loudnorm measurement pass for one file. A parsed
// record is persisted under the workspace and returned; otherwise the raw
// tool output is kept as a log and nil is returned so the encoder falls
// back to the default record.
func (u Usecase) analyzeFile(ctx context.Context, path string, ws workspace) *types.LoudnessRecord {
	out, _ := u.d.Media.AnalyzeLoudness(ctx, path)
	rec, ok := loudness.Extract(out)
	base := stripExt(filepath.Base(path))
	if !ok {
		u.writeArtifact(filepath.Join(ws.logs, base+"_loudness.log"), []byte(out))
		u.logLine(event.LevelWarning, "No loudness data for "+filepath.Base(path)+", using defaults")
		return nil
	}
	if b, err := json.MarshalIndent(rec, "", "  "); err == nil {
		u.writeArtifact(filepath.Join(ws.loudness, base+"_loudness.json"), b)
	}
	return &rec
}

// encode re-encodes the transition clip, then one segment per survivor.
// The transition job deliberately trims the clip to the fade length, so
// both fade windows span its entire runtime.
func (u Usecase) encode(ctx context.Context, tr *run.Tracker, in Input, survivors []types.Candidate, records map[string]*types.LoudnessRecord, ws workspace, res *Result) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.status("Processing common clip...")
	transitionJob := types.ClipJob{
		SourcePath:      in.TransitionClip,
		StartSeconds:    0,
		DurationSeconds: in.FadeSeconds,
		FadeSeconds:     in.FadeSeconds,
		OutputPath:      filepath.Join(ws.root, "transition.mp4"),
		LogPath:         filepath.Join(ws.logs, "transition.log"),
		Loudness:        records[in.TransitionClip],
	}
	out, err := u.d.Media.EncodeClip(ctx, transitionJob)
	if err != nil {
		u.writeArtifact(transitionJob.LogPath, []byte(out))
		return nil, fmt.Errorf("failed to process common clip: %w", err)
	}

	var encoded []string
	total := len(survivors)
	for i, cand := range survivors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr.SetProgress(i+1, total)
		u.d.Events.Push(event.Progress{Current: i + 1, Total: total})
		u.status(fmt.Sprintf("Processing video %d/%d", i+1, total))

		job := types.ClipJob{
			SourcePath:      cand.Path,
			StartSeconds:    float64(selection.StartSeconds(cand.DurationSeconds, u.d.Rand)),
			DurationSeconds: float64(selection.SegmentSeconds),
			FadeSeconds:     in.FadeSeconds,
			OutputPath:      filepath.Join(ws.root, fmt.Sprintf("clip_%04d.mp4", i+1)),
			LogPath:         filepath.Join(ws.logs, fmt.Sprintf("clip_%04d.log", i+1)),
			Loudness:        records[cand.Path],
		}
		base := filepath.Base(cand.Path)
		out, err := u.d.Media.EncodeClip(ctx, job)
		if err != nil {
			u.writeArtifact(job.LogPath, []byte(out))
			u.logLine(event.LevelWarning, "Failed: "+base)
			res.Failed++
		} else {
			encoded = append(encoded, job.OutputPath)
			u.logLine(event.LevelInfo, "Processed: "+base)
			res.Encoded++
		}
		u.d.Events.Push(event.SubProgress{Percent: float64(i+1) / float64(total) * 100})
	}
	if res.Failed > 0 {
		u.logLine(event.LevelWarning, fmt.Sprintf("%d files failed to process", res.Failed))
	}
	if len(encoded) == 0 {
		return nil, ErrNoEncodedClips
	}
	return encoded, nil
}

func (u Usecase) concatenate(ctx context.Context, outputPath string, encoded []string, ws workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.status("Creating final video...")
	listPath := filepath.Join(ws.root, "concat_list.txt")
	manifest := concat.Render(concat.Manifest(filepath.Join(ws.root, "transition.mp4"), encoded))
	if err := os.WriteFile(listPath, []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	out, err := u.d.Media.Concat(ctx, listPath, outputPath)
	if err != nil {
		return fmt.Errorf("%w: %v\n%s", ErrConcatFailed, err, out)
	}
	return nil
}

type workspace struct {
	root     string
	logs     string
	loudness string
}

func newWorkspace() (workspace, error) {
	root, err := os.MkdirTemp("", "hourmix-")
	if err != nil {
		return workspace{}, fmt.Errorf("create workspace: %w", err)
	}
	ws := workspace{
		root:     root,
		logs:     filepath.Join(root, "logs"),
		loudness: filepath.Join(root, "loudness"),
	}
	for _, dir := range []string{ws.logs, ws.loudness} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(root)
			return workspace{}, fmt.Errorf("create workspace: %w", err)
		}
	}
	return ws, nil
}

func (u Usecase) status(text string) {
	u.d.Events.Push(event.Status{Text: text})
}

func (u Usecase) logLine(level, text string) {
	u.d.Events.Push(event.Log{Level: level, Text: text})
}

// writeArtifact persists best-effort run artifacts; they share the
// workspace lifecycle, so a write failure only warrants a warning.
func (u Usecase) writeArtifact(path string, b []byte) {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		u.logLine(event.LevelWarning, "could not write "+filepath.Base(path)+": "+err.Error())
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func binOr(bin, fallback string) string {
	if bin == "" {
		return fallback
	}
	return bin
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
