package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is a named component-level checker the aggregator polls.
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker folds the component checkers into one service-wide
// flag. The service counts as healthy only when every component is.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	h := &ServiceHealthChecker{deps: deps, log: log}
	h.healthy.Store(0)
	return h
}

// IsHealthy returns the cached aggregate; it never probes.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Start evaluates immediately and then on every tick until ctx is done.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.eval()
		}
	}
}

// eval recomputes the aggregate and logs edges, naming the unhealthy
// components on the way down.
func (h *ServiceHealthChecker) eval() {
	var down []string
	for _, c := range h.deps {
		if !c.IsHealthy() {
			down = append(down, c.Name())
		}
	}

	next := int32(1)
	if len(down) > 0 {
		next = 0
	}
	if h.healthy.Swap(next) != next {
		if next == 1 {
			h.log.Info().Msg("service healthy")
		} else {
			h.log.Error().Strs("components", down).Msg("service unhealthy")
		}
	}
}
