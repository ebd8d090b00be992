// Command dlt-control is a minimal operator convenience: it connects to
// the collector's egress endpoint and writes a single out-of-band control
// payload, then prints at most one reply before exiting. It has no effect
// on ring, worker, or facade semantics — it exists purely so an operator
// can poke the collector's TCP listener without standing up a full
// subscriber session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/transport"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:3490", "collector egress address")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: dlt-control [-addr host:port] <payload>")
		os.Exit(1)
	}
	payload := flag.Arg(0)

	conn := transport.NewTCPClient(*addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Disconnect()

	if _, err := conn.Send([]byte(payload)); err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		os.Exit(1)
	}

	buf := make([]byte, 4096)
	n, err := conn.Receive(buf)
	if n > 0 {
		fmt.Printf("reply: %s\n", buf[:n])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "no reply: %v\n", err)
	}
}
