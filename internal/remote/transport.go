// Package remote talks to the cloud document store. The store is opaque: four
// write verbs and one read verb, all carried inside an authenticated
// transaction request. Records travel as loose field maps; typing happens in
// the codec, not on the wire.
package remote

import "context"

// Record is one remote document as returned by a query. Every record carries
// a "localId" field (the cross-device join key, distinct from the store's own
// record id) and an ISO-8601 "updatedAt" field.
type Record map[string]interface{}

// Transport is the minimal surface the sync engine needs from the remote
// store. Implementations must treat Apply as a single transaction.
type Transport interface {
	// Query returns every record in the given namespace.
	Query(ctx context.Context, namespace string) ([]Record, error)
	// Apply executes the steps inside one transaction.
	Apply(ctx context.Context, steps ...Step) error
}

// MaxStepsPerTransaction is the store's per-transaction step limit.
const MaxStepsPerTransaction = 100

// ApplyChunked splits steps into transactions of at most
// MaxStepsPerTransaction and applies them in order.
func ApplyChunked(ctx context.Context, t Transport, steps []Step) error {
	for len(steps) > 0 {
		n := len(steps)
		if n > MaxStepsPerTransaction {
			n = MaxStepsPerTransaction
		}
		if err := t.Apply(ctx, steps[:n]...); err != nil {
			return err
		}
		steps = steps[n:]
	}
	return nil
}
