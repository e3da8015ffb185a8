package ffmpeg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Chunks larger than this cannot come from a sane frame; a longer length
// means the stream is corrupt.
const maxChunkLen = 1 << 27

// readPNG consumes exactly one PNG image from r by walking its chunk
// structure (signature, then length/type/data/CRC records up to IEND), so a
// concatenated image2pipe stream can be split without buffering more than
// one frame. io.EOF is returned only at a clean frame boundary.
func readPNG(r *bufio.Reader) ([]byte, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read png signature: %w", err)
	}
	if !bytes.Equal(sig, pngSignature) {
		return nil, fmt.Errorf("stream is not aligned to a png signature")
	}

	var buf bytes.Buffer
	buf.Write(sig)

	header := make([]byte, 8) // chunk length + type
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			return nil, fmt.Errorf("read png chunk header: %w", err)
		}
		buf.Write(header)

		length := binary.BigEndian.Uint32(header[:4])
		if length > maxChunkLen {
			return nil, fmt.Errorf("png chunk length %d exceeds limit", length)
		}

		// Chunk data plus 4-byte CRC.
		if _, err := io.CopyN(&buf, r, int64(length)+4); err != nil {
			return nil, fmt.Errorf("read png chunk body: %w", err)
		}

		if bytes.Equal(header[4:8], []byte("IEND")) {
			return buf.Bytes(), nil
		}
	}
}
