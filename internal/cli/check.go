package cli

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the external tools are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ffmpegBin, _ := cmd.Flags().GetString("ffmpeg")
			ffprobeBin, _ := cmd.Flags().GetString("ffprobe")
			ytdlpBin, _ := cmd.Flags().GetString("ytdlp")

			out := cmd.OutOrStdout()
			ok := reportTool(out, "ffmpeg", flagOrEnv(ffmpegBin, "HOURMIX_FFMPEG"))
			ok = reportTool(out, "ffprobe", flagOrEnv(ffprobeBin, "HOURMIX_FFPROBE")) && ok
			if !reportTool(out, "yt-dlp", flagOrEnv(ytdlpBin, "HOURMIX_YTDLP")) {
				fmt.Fprintln(out, mutedStyle.Render("yt-dlp is only needed for playlist sources"))
			}
			if !ok {
				return errors.New("missing required tools")
			}
			return nil
		},
	}
}

func reportTool(w io.Writer, name, bin string) bool {
	if bin == "" {
		bin = name
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		fmt.Fprintf(w, "%s %s: not found\n", errorStyle.Render("✗"), name)
		return false
	}
	fmt.Fprintf(w, "%s %s: %s\n", successStyle.Render("✓"), name, path)
	return true
}
