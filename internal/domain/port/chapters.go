package port

import (
	"context"

	"github.com/coursemark/coursemark/internal/domain/entity"
)

// ChapterSink authors chapter markers into a video container without
// re-encoding.
type ChapterSink interface {
	// ProbeDuration returns the container's total duration in seconds.
	ProbeDuration(ctx context.Context, videoPath string) (float64, error)

	// WriteChapters remuxes videoPath with the given chapters and returns
	// the path of the output file.
	WriteChapters(ctx context.Context, videoPath string, chapters []entity.Chapter, outputPath string) (string, error)
}
