package subscriber

import (
	"fmt"
	"io"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
)

// Render writes one human-readable line per frame to w:
//
//	2026-07-30T12:00:00.000001Z ECU1 LOG TEST mcnt=1 noar=1 "hello"
func Render(w io.Writer, f frame.Frame) error {
	ts := time.Unix(int64(f.Sec), int64(f.Usec)*1000).UTC().Format("2006-01-02T15:04:05.000000Z")
	_, err := fmt.Fprintf(w, "%s %s %s %s mcnt=%d noar=%d %q\n",
		ts, f.Ecu.String(), f.App.String(), f.Ctx.String(), f.Mcnt, f.Noar, f.Payload)
	return err
}

// RenderSummary prints a trailer line summarizing a subscriber session:
// frame count and total bytes read, using a human-friendly byte size.
func RenderSummary(w io.Writer, frames int, bytesRead uint64) error {
	_, err := fmt.Fprintf(w, "-- %d frames, %s received --\n", frames, humanize.Bytes(bytesRead))
	return err
}
