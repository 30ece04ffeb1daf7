package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// PingChecker wraps any HealthPinger (the sqlite store, the remote
// transport) as a named component checker with a bounded probe.
type PingChecker struct {
	name    string
	pinger  HealthPinger
	timeout time.Duration
	healthy atomic.Int32
	log     zerolog.Logger
}

func NewPingChecker(name string, p HealthPinger, probeTimeout time.Duration, log zerolog.Logger) *PingChecker {
	c := &PingChecker{name: name, pinger: p, timeout: probeTimeout, log: log}
	c.healthy.Store(0)
	return c
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

func (c *PingChecker) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.pinger.HealthPing(probeCtx); err != nil {
		if c.healthy.Swap(0) == 1 {
			c.log.Error().Err(err).Str("component", c.name).Msg("health probe failed")
		}
		return
	}
	if c.healthy.Swap(1) == 0 {
		c.log.Info().Str("component", c.name).Msg("health probe ok")
	}
}

// Start probes immediately, then on every interval tick until ctx is done.
func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.probe(ctx)
		}
	}
}
