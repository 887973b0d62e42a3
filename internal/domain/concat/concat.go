// Package concat builds manifests for ffmpeg's concat demuxer.
package concat

import "strings"

// Line formats one manifest entry. Single quotes inside the path are
// escaped so the demuxer reads the path verbatim under -safe 0.
func Line(path string) string {
	return "file '" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// Manifest interleaves the transition clip between consecutive source
// clips: clip, transition, clip, ..., clip. A single clip yields a
// single entry.
func Manifest(transition string, clips []string) []string {
	if len(clips) == 0 {
		return nil
	}
	lines := make([]string, 0, 2*len(clips)-1)
	for i, clip := range clips {
		if i > 0 {
			lines = append(lines, Line(transition))
		}
		lines = append(lines, Line(clip))
	}
	return lines
}

// Render joins manifest entries into file contents, one per line with a
// trailing newline.
func Render(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
