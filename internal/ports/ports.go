package ports

import (
	"context"

	"github.com/forPelevin/hourmix/internal/types"
)

type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	AnalyzeLoudness(ctx context.Context, path string) (string, error)
	EncodeClip(ctx context.Context, job types.ClipJob) (string, error)
	Concat(ctx context.Context, listPath, outPath string) (string, error)
}

type PlaylistFetcher interface {
	Fetch(ctx context.Context, url, destDir string, onLine func(line string)) error
}
