package port

import "context"

// Frame is one still image pulled from the decoder, PNG-encoded, tagged with
// its position in the extraction sequence.
type Frame struct {
	Index int
	PNG   []byte
}

// FrameStream is a lazy, finite, forward-only sequence of frames. Next
// returns io.EOF when the underlying decoder has produced its last frame;
// a decoder failure or malformed stream also ends the sequence rather than
// surfacing as an error. Streams are not restartable.
type FrameStream interface {
	Next() (Frame, error)
	Close() error
}

// FrameRequest bounds one extraction: a time range of a video sampled at a
// fixed rate.
type FrameRequest struct {
	VideoPath       string
	StartSeconds    float64
	DurationSeconds float64
	RateHz          float64
}

// FrameSource spawns an independent decode for each request.
type FrameSource interface {
	Open(ctx context.Context, req FrameRequest) (FrameStream, error)
}
