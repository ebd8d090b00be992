// Command dlt-subscriber connects to a collector's egress TCP port and
// prints one decoded frame per line until the connection closes.
package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/subscriber"
)

func main() {
	host := flag.String("a", "127.0.0.1", "collector egress host")
	port := flag.String("p", "3490", "collector egress port")
	flag.Parse()

	addr := net.JoinHostPort(*host, *port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	cr := &countingReader{r: conn}
	fr := subscriber.NewFrameReader(cr)
	count := 0
	for {
		f, err := fr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			break
		}
		if renderErr := subscriber.Render(os.Stdout, f); renderErr != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", renderErr)
			break
		}
		count++
	}
	_ = subscriber.RenderSummary(os.Stdout, count, cr.n)
}

// countingReader tallies the bytes read from the collector for the
// session trailer.
type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}
