package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

// Fetch downloads every entry of the playlist at url into destDir,
// named by the tool's title template. Stdout is consumed line by line
// and forwarded to onLine so the caller sees download progress and
// cancellation can take effect mid-transfer.
func (a *Adapter) Fetch(ctx context.Context, url, destDir string, onLine func(line string)) error {
	cmd := exec.CommandContext(ctx, a.bin, buildFetchArgs(url, destDir)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("yt-dlp stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("yt-dlp start: %w", err)
	}
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if onLine != nil {
			onLine(sc.Text())
		}
	}
	scanErr := sc.Err()
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("yt-dlp failed: %w\n%s", err, stderr.String())
	}
	if scanErr != nil {
		return fmt.Errorf("yt-dlp output: %w", scanErr)
	}
	return nil
}

func buildFetchArgs(url, destDir string) []string {
	return []string{
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--yes-playlist",
		url,
	}
}
