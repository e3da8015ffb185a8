package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/coursemark/coursemark/internal/domain/port"
	"go.uber.org/zap"
)

// FrameSource extracts still frames from a bounded time range of a video by
// piping ffmpeg's image2pipe PNG output through an incremental splitter.
type FrameSource struct {
	ffmpegPath string
	logger     *zap.Logger
}

func NewFrameSource(ffmpegPath string, logger *zap.Logger) *FrameSource {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FrameSource{ffmpegPath: ffmpegPath, logger: logger}
}

func (s *FrameSource) Open(ctx context.Context, req port.FrameRequest) (port.FrameStream, error) {
	if req.DurationSeconds <= 0 {
		return nil, fmt.Errorf("frame request duration must be positive, got %f", req.DurationSeconds)
	}
	if req.RateHz <= 0 {
		return nil, fmt.Errorf("frame request sampling rate must be positive, got %f", req.RateHz)
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath,
		"-ss", strconv.FormatFloat(req.StartSeconds, 'f', -1, 64),
		"-t", strconv.FormatFloat(req.DurationSeconds, 'f', -1, 64),
		"-i", req.VideoPath,
		"-vf", fmt.Sprintf("fps=%g", req.RateHz),
		"-f", "image2pipe",
		"-vcodec", "png",
		"-hide_banner",
		"-loglevel", "error",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	s.logger.Debug("decode started",
		zap.String("video", req.VideoPath),
		zap.Float64("start", req.StartSeconds),
		zap.Float64("duration", req.DurationSeconds),
		zap.Float64("fps", req.RateHz),
	)

	return &frameStream{
		cmd:    cmd,
		stdout: stdout,
		reader: bufio.NewReaderSize(stdout, 1<<16),
		logger: s.logger,
	}, nil
}

type frameStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	next   int
	done   bool
	logger *zap.Logger
}

// Next returns the next frame, or io.EOF once the decoder is drained. A
// malformed stream also terminates the sequence: the caller treats it as no
// more frames, not a hard fault.
func (fs *frameStream) Next() (port.Frame, error) {
	if fs.done {
		return port.Frame{}, io.EOF
	}

	data, err := readPNG(fs.reader)
	if err != nil {
		fs.done = true
		if err != io.EOF {
			fs.logger.Warn("frame stream ended early", zap.Int("frame", fs.next), zap.Error(err))
		}
		fs.wait()
		return port.Frame{}, io.EOF
	}

	frame := port.Frame{Index: fs.next, PNG: data}
	fs.next++
	return frame, nil
}

// Close terminates the decoder and awaits it so no zombie is left behind.
func (fs *frameStream) Close() error {
	if fs.cmd.Process != nil {
		_ = fs.cmd.Process.Kill()
	}
	fs.stdout.Close()
	fs.wait()
	return nil
}

func (fs *frameStream) wait() {
	if fs.cmd.ProcessState != nil {
		return
	}
	if err := fs.cmd.Wait(); err != nil {
		fs.logger.Debug("ffmpeg exited", zap.Error(err))
	}
}
