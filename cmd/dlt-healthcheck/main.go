// Command dlt-healthcheck is a minimal standalone health probe endpoint,
// separate from the collector's own admin server, for deployments that
// want an extremely lean liveness check with no router or metrics
// dependencies in the request path.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

func main() {
	addr := flag.String("addr", ":8082", "listen address")
	version := flag.String("version", "dev", "version string to report")
	flag.Parse()

	handler := func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/healthz":
			ctx.Response.Header.Set("Content-Type", "application/json")
			ctx.SetStatusCode(fasthttp.StatusOK)
			_, _ = ctx.WriteString(fmt.Sprintf("{\"status\":\"ok\",\"version\":%q}", *version))
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}

	srv := &fasthttp.Server{
		Handler:      handler,
		Name:         "dlt-healthcheck",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	fmt.Printf("dlt-healthcheck listening on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		fmt.Printf("fasthttp server exit: %v\n", err)
	}
}
