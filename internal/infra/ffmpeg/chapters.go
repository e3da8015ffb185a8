package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coursemark/coursemark/internal/domain/entity"
	"go.uber.org/zap"
)

// ChapterSink writes chapter markers into a video container by authoring an
// FFMETADATA file and remuxing with stream copy.
type ChapterSink struct {
	ffmpegPath  string
	ffprobePath string
	logger      *zap.Logger
}

func NewChapterSink(ffmpegPath, ffprobePath string, logger *zap.Logger) *ChapterSink {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ChapterSink{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, logger: logger}
}

func (c *ChapterSink) ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}

// readMetadata dumps the container's existing metadata in FFMETADATA form.
// A failure is downgraded to empty metadata so chapter authoring can still
// proceed.
func (c *ChapterSink) readMetadata(ctx context.Context, videoPath string) string {
	cmd := exec.CommandContext(ctx, c.ffmpegPath, "-i", videoPath, "-f", "ffmetadata", "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		c.logger.Warn("metadata extraction failed, continuing with empty metadata",
			zap.Error(err), zap.String("stderr", stderr.String()))
		return ";FFMETADATA1\n"
	}
	return stdout.String()
}

func (c *ChapterSink) WriteChapters(ctx context.Context, videoPath string, chapters []entity.Chapter, outputPath string) (string, error) {
	if len(chapters) == 0 {
		return "", fmt.Errorf("no chapters to write")
	}

	// The container duration closes the final chapter when available.
	if duration, err := c.ProbeDuration(ctx, videoPath); err != nil {
		c.logger.Warn("could not probe video duration, keeping estimated end for last chapter", zap.Error(err))
	} else {
		chapters = withFinalEnd(chapters, duration)
	}

	if outputPath == "" {
		ext := filepath.Ext(videoPath)
		outputPath = strings.TrimSuffix(videoPath, ext) + "_chapters" + ext
	}

	metadata := c.readMetadata(ctx, videoPath) + renderChapters(chapters)

	metadataPath := filepath.Join(filepath.Dir(outputPath), "FFMETADATA.txt")
	if err := os.WriteFile(metadataPath, []byte(metadata), 0o644); err != nil {
		return "", fmt.Errorf("write metadata file: %w", err)
	}
	defer os.Remove(metadataPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-y",
		"-i", videoPath,
		"-i", metadataPath,
		"-map_metadata", "1",
		"-codec", "copy",
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		// Do not leave a half-written container around.
		os.Remove(outputPath)
		return "", fmt.Errorf("remux chapters: %w, output: %s", err, output)
	}

	c.logger.Info("chapters written",
		zap.Int("count", len(chapters)),
		zap.String("output", outputPath),
	)
	return outputPath, nil
}

// withFinalEnd closes the last chapter at the container duration. The input
// slice is caller-owned and stays untouched.
func withFinalEnd(chapters []entity.Chapter, durationSeconds float64) []entity.Chapter {
	adjusted := make([]entity.Chapter, len(chapters))
	copy(adjusted, chapters)
	adjusted[len(adjusted)-1].EndMillis = int64(durationSeconds * 1000)
	return adjusted
}

// renderChapters emits [CHAPTER] blocks on a 1/1000 timebase.
func renderChapters(chapters []entity.Chapter) string {
	var b strings.Builder
	for _, ch := range chapters {
		fmt.Fprintf(&b, "\n[CHAPTER]\nTIMEBASE=1/1000\nSTART=%d\nEND=%d\ntitle=%s\n",
			ch.StartMillis, ch.EndMillis, ch.Title)
	}
	return b.String()
}
