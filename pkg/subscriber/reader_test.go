package subscriber

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
)

func sampleFrame() frame.Frame {
	return frame.Frame{
		Sec:      1700000000,
		Usec:     123456,
		Ecu:      frame.NewEcuId("ECU1"),
		Mcnt:     3,
		Extended: true,
		Noar:     1,
		App:      frame.NewAppId("LOG"),
		Ctx:      frame.NewContextId("TEST"),
		Payload:  "0 Hello",
	}
}

func TestFrameReaderDecodesSingleFrame(t *testing.T) {
	wire := frame.Encode(sampleFrame())
	fr := NewFrameReader(bytes.NewReader(wire))

	got, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, "0 Hello", got.Payload)
}

func TestFrameReaderHandlesSplitReads(t *testing.T) {
	wire := frame.Encode(sampleFrame())
	// Force the reader to observe the frame split across many tiny reads.
	pr, pw := io.Pipe()
	go func() {
		for _, b := range wire {
			_, _ = pw.Write([]byte{b})
		}
		pw.Close()
	}()

	fr := NewFrameReader(pr)
	got, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, "0 Hello", got.Payload)
}

func TestFrameReaderDecodesMultipleFramesInOneStream(t *testing.T) {
	f1 := sampleFrame()
	f2 := sampleFrame()
	f2.Payload = "1 World"
	wire := append(frame.Encode(f1), frame.Encode(f2)...)

	fr := NewFrameReader(bytes.NewReader(wire))
	got1, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, "0 Hello", got1.Payload)

	got2, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, "1 World", got2.Payload)

	_, err = fr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameReaderReturnsShortReadOnMidFrameEOF(t *testing.T) {
	wire := frame.Encode(sampleFrame())
	truncated := wire[:len(wire)-3]

	fr := NewFrameReader(bytes.NewReader(truncated))
	_, err := fr.Next()
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestFrameReaderCleanEOFBetweenFrames(t *testing.T) {
	fr := NewFrameReader(bytes.NewReader(nil))
	_, err := fr.Next()
	assert.ErrorIs(t, err, io.EOF)
}
