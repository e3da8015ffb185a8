package usecase

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coursemark/coursemark/internal/domain/entity"
	"github.com/coursemark/coursemark/internal/domain/port"
	"github.com/coursemark/coursemark/internal/infra/metrics"
	"github.com/coursemark/coursemark/internal/infra/vision"
	"github.com/coursemark/coursemark/pkg/timefmt"
)

// ErrAborted reports that the operator interrupted a running search.
var ErrAborted = errors.New("search aborted by user")

// SearchResult is the outcome of one boundary search. Elapsed is reported
// for both outcomes; the frame paths are set only when frame saving is on
// and the text was found.
type SearchResult struct {
	Found              bool
	TimestampSeconds   float64
	Elapsed            time.Duration
	FramePath          string
	ProcessedFramePath string
}

// BoundarySearch scans a bounded time window of a video for a target phrase,
// frame by frame, through the normalize-then-recognize pipeline.
type BoundarySearch struct {
	frames     port.FrameSource
	ocr        port.TextRecognizer
	rateHz     float64
	saveFrames bool
	logger     *zap.Logger
}

type BoundarySearchConfig struct {
	RateHz     float64
	SaveFrames bool
}

func NewBoundarySearch(frames port.FrameSource, ocr port.TextRecognizer, cfg BoundarySearchConfig, logger *zap.Logger) *BoundarySearch {
	rate := cfg.RateHz
	if rate <= 0 {
		rate = 1.0
	}
	return &BoundarySearch{
		frames:     frames,
		ocr:        ocr,
		rateHz:     rate,
		saveFrames: cfg.SaveFrames,
		logger:     logger,
	}
}

// Search streams frames across the resolved window in ascending time order
// and returns the first frame whose recognized text contains targetText,
// case-insensitively. The decode is canceled as soon as a match is found.
// Per-frame decode or OCR failures are logged and skipped; only operator
// interruption surfaces as an error (ErrAborted).
func (s *BoundarySearch) Search(ctx context.Context, videoPath string, window entity.SearchWindow, targetText string, crop *entity.CropRegion) (SearchResult, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "boundary_search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.target", targetText),
		attribute.Float64("search.center", window.CenterSeconds),
	)

	resolved := window.Resolve()
	target := strings.ToLower(targetText)
	began := time.Now()

	s.logger.Info("boundary search started",
		zap.String("target", targetText),
		zap.String("from", timefmt.SecondsToHMS(resolved.StartSeconds)),
		zap.String("to", timefmt.SecondsToHMS(resolved.EndSeconds())),
		zap.Float64("fps", s.rateHz),
	)

	stream, err := s.frames.Open(ctx, port.FrameRequest{
		VideoPath:       videoPath,
		StartSeconds:    resolved.StartSeconds,
		DurationSeconds: resolved.DurationSeconds,
		RateHz:          s.rateHz,
	})
	if err != nil {
		return SearchResult{Elapsed: time.Since(began)}, fmt.Errorf("open frame stream: %w", err)
	}
	defer stream.Close()

	defer func() {
		metrics.SearchDuration.Observe(time.Since(began).Seconds())
	}()

	for {
		if ctx.Err() != nil {
			return SearchResult{Elapsed: time.Since(began)}, ErrAborted
		}

		frame, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				return SearchResult{Elapsed: time.Since(began)}, ErrAborted
			}
			if err != io.EOF {
				s.logger.Warn("frame stream error, treating window as exhausted", zap.Error(err))
			}
			elapsed := time.Since(began)
			s.logger.Info("search exhausted, text not found",
				zap.String("target", targetText),
				zap.Duration("elapsed", elapsed),
			)
			return SearchResult{Elapsed: elapsed}, nil
		}

		timestamp := resolved.StartSeconds + float64(frame.Index)/s.rateHz
		if frame.Index%10 == 0 {
			s.logger.Debug("scanning frame",
				zap.Int("frame", frame.Index),
				zap.String("at", timefmt.SecondsToHMS(timestamp)),
			)
		}

		original, normalized, err := vision.NormalizePNG(frame.PNG, crop)
		if err != nil {
			metrics.OCRErrorsTotal.Inc()
			s.logger.Warn("skipping malformed frame", zap.Int("frame", frame.Index), zap.Error(err))
			continue
		}

		text, err := s.ocr.Recognize(normalized)
		if err != nil {
			metrics.OCRErrorsTotal.Inc()
			s.logger.Warn("skipping frame after ocr error", zap.Int("frame", frame.Index), zap.Error(err))
			continue
		}
		metrics.FramesScannedTotal.Inc()

		if !strings.Contains(strings.ToLower(text), target) {
			continue
		}

		elapsed := time.Since(began)
		s.logger.Info("text found",
			zap.String("target", targetText),
			zap.Int("frame", frame.Index),
			zap.String("at", timefmt.SecondsToHMS(timestamp)),
			zap.Duration("elapsed", elapsed),
		)

		result := SearchResult{
			Found:            true,
			TimestampSeconds: timestamp,
			Elapsed:          elapsed,
		}
		if s.saveFrames {
			result.FramePath, result.ProcessedFramePath = s.saveMatch(videoPath, timestamp, original, normalized)
		}
		return result, nil
	}
}

// saveMatch writes the matched frame and its normalized variant next to the
// video. Failures are logged only; a missing snapshot never fails a search.
func (s *BoundarySearch) saveMatch(videoPath string, timestamp float64, original image.Image, normalized []byte) (string, string) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	stamp := strings.ReplaceAll(timefmt.SecondsToHMS(timestamp), ":", "_")
	framePath := fmt.Sprintf("%s_frame_%s.png", base, stamp)
	processedPath := fmt.Sprintf("%s_frame_%s_processed.png", base, stamp)

	f, err := os.Create(framePath)
	if err != nil {
		s.logger.Warn("could not save matched frame", zap.Error(err))
		return "", ""
	}
	if err := png.Encode(f, original); err != nil {
		f.Close()
		s.logger.Warn("could not encode matched frame", zap.Error(err))
		return "", ""
	}
	f.Close()

	if err := os.WriteFile(processedPath, normalized, 0o644); err != nil {
		s.logger.Warn("could not save processed frame", zap.Error(err))
		return framePath, ""
	}

	s.logger.Info("matched frame saved",
		zap.String("frame", framePath),
		zap.String("processed", processedPath),
	)
	return framePath, processedPath
}
