// Package health tracks component liveness (the local store, the remote
// document store) and aggregates it into the single flag the health endpoint
// reports.
package health

import "context"

// HealthPinger is the probe surface a component exposes to its checker.
// A nil return means the component is reachable and serving.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
