// Package subscriber implements the egress-side consumer: a frame
// boundary scanner over a byte stream with no guaranteed alignment, and a
// renderer that prints one decoded frame per line.
package subscriber

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
)

const (
	minPrefix = 20 // storage header (16) + standard header (4): enough to read the declared length
)

// ErrShortRead is returned by FrameReader.Next when the underlying reader
// hit EOF mid-frame; the caller should stop, not retry.
var ErrShortRead = errors.New("subscriber: stream ended mid-frame")

// FrameReader scans a byte stream for frame boundaries, buffering partial
// reads across calls, and decodes each complete frame it finds. A
// collector's egress connection delivers byte chunks with no framing
// relationship to TCP segment or read-syscall boundaries, so this must
// tolerate a frame split across arbitrarily many reads.
type FrameReader struct {
	r   io.Reader
	buf []byte
}

// NewFrameReader wraps r. r is read in 4KiB increments as more bytes are
// needed to complete a frame.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, buf: make([]byte, 0, 4096)}
}

// Next returns the next decoded frame, blocking on underlying reads as
// needed. It returns io.EOF only when the stream ended cleanly between
// frames, and ErrShortRead when it ended mid-frame.
func (fr *FrameReader) Next() (frame.Frame, error) {
	for {
		if n, ok := fr.tryExtract(); ok {
			f, err := frame.Decode(fr.buf[:n])
			fr.buf = append(fr.buf[:0], fr.buf[n:]...)
			return f, err
		}
		if err := fr.fill(); err != nil {
			if err == io.EOF {
				if len(fr.buf) == 0 {
					return frame.Frame{}, io.EOF
				}
				return frame.Frame{}, ErrShortRead
			}
			return frame.Frame{}, err
		}
	}
}

// tryExtract reports the byte length of one complete frame at the front
// of fr.buf, if enough bytes have accumulated.
func (fr *FrameReader) tryExtract() (int, bool) {
	if len(fr.buf) < minPrefix {
		return 0, false
	}
	declaredLen := binary.LittleEndian.Uint16(fr.buf[18:20])
	total := 16 + int(declaredLen)
	if len(fr.buf) < total {
		return 0, false
	}
	return total, true
}

func (fr *FrameReader) fill() error {
	chunk := make([]byte, 4096)
	n, err := fr.r.Read(chunk)
	if n > 0 {
		// Per io.Reader's contract, the n>0 bytes must be processed before
		// the error is considered; defer err to the next call.
		fr.buf = append(fr.buf, chunk[:n]...)
		return nil
	}
	if err == nil {
		return io.ErrNoProgress
	}
	return err
}
