// Command dlt-bench is a minimal throughput harness over the facade's
// emit path. It is a collaborator surface, not core library behavior: any
// equivalent harness would satisfy the same testable properties.
package main

import (
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/dlt"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
)

type benchCase struct {
	name string
	run  func() (emitted int, elapsed time.Duration)
}

func cases() []benchCase {
	return []benchCase{
		{
			name: "overwrite-burst",
			run: func() (int, time.Duration) {
				return runBurst(dlt.OverflowOverwrite, 100_000)
			},
		},
		{
			name: "drop-newest-burst",
			run: func() (int, time.Duration) {
				return runBurst(dlt.OverflowDropNewest, 100_000)
			},
		},
	}
}

func runBurst(mode dlt.OverflowMode, n int) (int, time.Duration) {
	_ = dlt.SetOverflowMode(byte(mode))
	ctx := dlt.NewContext("BNCH", "CASE", "", "")
	start := time.Now()
	emitted := 0
	for i := 0; i < n; i++ {
		if dlt.Emit(ctx, frame.LevelInfo, i, "bench") == nil {
			emitted++
		}
	}
	return emitted, time.Since(start)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		for _, c := range cases() {
			fmt.Println(c.name)
		}
	case "--all":
		for _, c := range cases() {
			runAndReport(c)
		}
	case "case":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		name := os.Args[2]
		for _, c := range cases() {
			if c.name == name {
				runAndReport(c)
				return
			}
		}
		fmt.Fprintf(os.Stderr, "unknown case: %s\n", name)
		os.Exit(1)
	default:
		usage()
		os.Exit(1)
	}
}

func runAndReport(c benchCase) {
	emitted, elapsed := c.run()
	rate := float64(emitted) / elapsed.Seconds()
	fmt.Printf("%-20s emitted=%s elapsed=%s rate=%s/s\n",
		c.name, humanize.Comma(int64(emitted)), elapsed.Round(time.Millisecond), humanize.Comma(int64(rate)))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dlt-bench list | dlt-bench case <name> | dlt-bench --all")
}
