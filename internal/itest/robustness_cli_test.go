//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 30 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name: "no args",
			args: staticArgs(),
			wantContains: []string{
				"accepts 1 arg(s), received 0",
			},
		},
		{
			name: "too many args",
			args: staticArgs("videos", "extra"),
			wantContains: []string{
				"accepts 1 arg(s), received 2",
			},
		},
		{
			name: "unknown flag",
			args: staticArgs("videos", "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "fade non numeric",
			args: staticArgs("videos", "--fade", "nope"),
			wantContains: []string{
				`invalid argument "nope" for "--fade"`,
			},
		},
		{
			name: "transition flag required",
			args: staticArgs("videos"),
			wantContains: []string{
				`required flag(s) "transition" not set`,
			},
		},
		{
			name: "fade out of range",
			args: poolArgs(nil, "--fade", "42"),
			wantContains: []string{
				"config: fade must be within",
			},
		},
		{
			name: "unknown quality",
			args: poolArgs(nil, "--quality", "ultra"),
			wantContains: []string{
				`unknown quality "ultra"`,
			},
		},
		{
			name: "unknown format",
			args: poolArgs(nil, "--format", "webm"),
			wantContains: []string{
				`unknown format "webm"`,
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_SourceValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name: "missing transition file",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				tmp := t.TempDir()
				return []string{tmp, "--transition", filepath.Join(tmp, "does-not-exist.mp4")}
			},
			wantContains: []string{
				"config: stat transition clip",
			},
		},
		{
			name: "missing source dir",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				tmp := t.TempDir()
				transition := filepath.Join(tmp, "transition.mp4")
				writeStub(t, transition)
				return []string{filepath.Join(tmp, "does-not-exist"), "--transition", transition, "--plain"}
			},
			wantContains: []string{
				"source not found",
			},
		},
		{
			name: "source is a file",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				tmp := t.TempDir()
				transition := filepath.Join(tmp, "transition.mp4")
				writeStub(t, transition)
				src := filepath.Join(tmp, "single.mp4")
				writeStub(t, src)
				return []string{src, "--transition", transition, "--plain"}
			},
			wantContains: []string{
				"source not found",
			},
		},
		{
			name: "empty source dir",
			args: poolArgs(nil, "--plain"),
			wantContains: []string{
				"no video files found",
			},
		},
		{
			name: "housekeeping files only",
			args: poolArgs([]string{"notes.txt", "helper.py", "run.log", "data.json"}, "--plain"),
			wantContains: []string{
				"no video files found",
			},
		},
		{
			name: "unreadable media",
			args: poolArgs([]string{"party.mp4"}, "--plain"),
			wantContains: []string{
				"Skipping party.mp4: duration unavailable",
				"no valid videos found",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_EnvOverrides(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name: "ffmpeg override not found",
			args: poolArgs(nil, "--plain"),
			env: map[string]string{
				"HOURMIX_FFMPEG": "/nonexistent/hourmix-ffmpeg",
			},
			wantContains: []string{
				"required tool not found: /nonexistent/hourmix-ffmpeg",
			},
		},
		{
			name: "ytdlp override ignored for local source",
			args: poolArgs(nil, "--plain"),
			env: map[string]string{
				"HOURMIX_YTDLP": "/nonexistent/hourmix-ytdlp",
			},
			wantContains: []string{
				"no video files found",
			},
			wantNotContains: []string{
				"required tool not found",
			},
		},
		{
			name: "remote source needs ytdlp",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				tmp := t.TempDir()
				transition := filepath.Join(tmp, "transition.mp4")
				writeStub(t, transition)
				return []string{"https://example.invalid/playlist", "--transition", transition, "--plain"}
			},
			env: map[string]string{
				"HOURMIX_YTDLP": "/nonexistent/hourmix-ytdlp",
			},
			wantContains: []string{
				"required tool not found: /nonexistent/hourmix-ytdlp",
			},
		},
		{
			name: "check reports missing override",
			args: staticArgs("check"),
			env: map[string]string{
				"HOURMIX_FFMPEG": "/nonexistent/hourmix-ffmpeg",
			},
			wantContains: []string{
				"ffmpeg: not found",
				"missing required tools",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

// poolArgs builds a source dir holding the given stub files plus a stub
// transition clip, then appends extra flags.
func poolArgs(poolFiles []string, extra ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), extra...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		tmp := t.TempDir()
		pool := filepath.Join(tmp, "pool")
		if err := os.MkdirAll(pool, 0o755); err != nil {
			t.Fatalf("mkdir pool fixture: %v", err)
		}
		for _, name := range poolFiles {
			writeStub(t, filepath.Join(pool, name))
		}
		transition := filepath.Join(tmp, "transition.mp4")
		writeStub(t, transition)
		return append([]string{pool, "--transition", transition}, clone...)
	}
}

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/hourmix"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
