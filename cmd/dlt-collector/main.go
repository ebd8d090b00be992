// Command dlt-collector runs the collector daemon: it accepts producer
// connections on a unix domain socket, fans the received bytes out to
// connected TCP subscribers, and serves an admin HTTP surface with
// health and metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/collector"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env")
	logger.Init()

	cfg := collector.DefaultConfig()
	configPath := flag.String("config", "", "optional YAML config file overlaying the defaults")
	flag.StringVar(&cfg.IngressSocketPath, "ingress", cfg.IngressSocketPath, "unix socket path producers connect to")
	flag.StringVar(&cfg.EgressAddr, "egress", cfg.EgressAddr, "tcp address subscribers connect to")
	flag.StringVar(&cfg.AdminAddr, "admin", cfg.AdminAddr, "tcp address for the admin http surface")
	flag.StringVar(&cfg.StatsCron, "stats-cron", cfg.StatsCron, "5-field cron expression for the periodic stats log line")
	flag.Parse()

	if *configPath != "" {
		loaded, err := collector.LoadConfigFile(*configPath, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config file: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := collector.New(cfg)
	logger.Info("dlt_collector_starting", "ingress", cfg.IngressSocketPath, "egress", cfg.EgressAddr, "admin", cfg.AdminAddr)
	if err := c.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "collector exited: %v\n", err)
		os.Exit(1)
	}
}
