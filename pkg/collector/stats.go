package collector

import (
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/logger"
)

// defaultStatsCron logs a summary once a minute; operators who want a
// different cadence can pass any valid 5-field cron expression.
const defaultStatsCron = "* * * * *"

// runStatsReporter wakes on the configured cron schedule and logs the
// collector's current subscriber count and shuttle depth as one
// structured line, giving operators a
// log-scrapeable trail independent of the Prometheus /metrics endpoint.
func (c *Collector) runStatsReporter(ctx context.Context, cronExpr string) {
	if cronExpr == "" {
		cronExpr = defaultStatsCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Warn("collector_stats_invalid_cron", "cron", cronExpr)
		cronExpr = defaultStatsCron
	}

	for {
		next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
		if err != nil {
			logger.Warn("collector_stats_nexttick_failed", "error", err)
			next = time.Now().Add(time.Minute)
		}
		wait := time.Until(next)
		if wait <= 0 {
			wait = time.Second
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			c.logStats()
		}
	}
}

func (c *Collector) logStats() {
	c.mu.Lock()
	subs := c.subscribers
	c.mu.Unlock()

	logger.Info("collector_stats",
		"subscribers", subs,
		"shuttle_depth", len(c.shuttle.out()),
	)
}
