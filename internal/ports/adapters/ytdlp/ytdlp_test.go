package ytdlp

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultsBinary(t *testing.T) {
	t.Parallel()

	if a := New(""); a.bin != "yt-dlp" {
		t.Fatalf("got %q, want yt-dlp", a.bin)
	}
	if a := New("/opt/yt-dlp"); a.bin != "/opt/yt-dlp" {
		t.Fatalf("explicit path not kept: %q", a.bin)
	}
}

func TestFetchArgs(t *testing.T) {
	t.Parallel()

	got := buildFetchArgs("https://example.com/playlist?list=abc", "/ws/downloads")
	want := []string{
		"-o", filepath.Join("/ws/downloads", "%(title)s.%(ext)s"),
		"--yes-playlist",
		"https://example.com/playlist?list=abc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFetchForwardsLines(t *testing.T) {
	t.Parallel()
	requireSh(t)

	script := writeScript(t, "#!/bin/sh\n"+
		"echo '[download] Destination: a.mp4'\n"+
		"echo '[download] 100% of 1.00MiB'\n"+
		"echo 'Deleting original file a.webm'\n")
	var lines []string
	err := New(script).Fetch(context.Background(), "https://example.com/p", t.TempDir(), func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []string{
		"[download] Destination: a.mp4",
		"[download] 100% of 1.00MiB",
		"Deleting original file a.webm",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
}

func TestFetchReportsStderrOnFailure(t *testing.T) {
	t.Parallel()
	requireSh(t)

	script := writeScript(t, "#!/bin/sh\necho 'ERROR: unavailable video' >&2\nexit 1\n")
	err := New(script).Fetch(context.Background(), "https://example.com/p", t.TempDir(), nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "ERROR: unavailable video") {
		t.Fatalf("stderr not surfaced: %v", err)
	}
}

func TestFetchStopsOnCancel(t *testing.T) {
	t.Parallel()
	requireSh(t)

	script := writeScript(t, "#!/bin/sh\nsleep 5\n")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := New(script).Fetch(ctx, "https://example.com/p", t.TempDir(), nil)
	if err == nil {
		t.Fatalf("expected an error after cancellation")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch did not stop promptly: %v", elapsed)
	}
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ytdlp")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
