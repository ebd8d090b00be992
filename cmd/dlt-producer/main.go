// Command dlt-producer emits a configurable number of log records through
// the facade's public API, exercising the same hot path any embedding
// application would use.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/dlt"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
)

func main() {
	delayMS := flag.Int("d", 500, "delay between emits, in milliseconds")
	count := flag.Int("n", 10, "number of records to emit")
	localPrint := flag.Bool("a", false, "enable local echo of emitted records")
	level := flag.Int("l", 3, "log level 1(fatal)..6(verbose)")
	appID := flag.String("A", "LOG", "application id")
	ctxID := flag.String("C", "TEST", "context id")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: dlt-producer [flags] <message>")
		os.Exit(1)
	}
	message := flag.Arg(0)

	if *level < 1 || *level > 6 {
		*level = 3
	}

	if *localPrint {
		dlt.SetLocalPrint(true)
	}

	ctx := dlt.NewContext(*appID, *ctxID, "", "")
	for i := 0; i < *count; i++ {
		if err := dlt.Emit(ctx, frame.LogLevel(*level), i, message); err != nil {
			fmt.Fprintf(os.Stderr, "emit %d: %v\n", i, err)
		}
		if i < *count-1 {
			time.Sleep(time.Duration(*delayMS) * time.Millisecond)
		}
	}

	// Give the worker goroutines a chance to flush the last batch before
	// the process exits; delivery past this point is not guaranteed.
	time.Sleep(50 * time.Millisecond)
}
