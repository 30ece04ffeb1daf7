package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/remote"
)

// Reconciler removes duplicate schedule entries that accumulated in the
// remote store before dedup-key matching existed. It is a maintenance
// operation: it touches only the remote side and never the local store.
type Reconciler struct {
	transport remote.Transport
	log       zerolog.Logger
}

func NewReconciler(t remote.Transport, log zerolog.Logger) *Reconciler {
	return &Reconciler{transport: t, log: log}
}

// CleanupCloudDuplicates fetches every remote schedule entry, groups them by
// dedup key, keeps the first-seen record of each group and deletes the rest.
// Deletes are chunked by the transport's per-transaction step limit. Returns
// the number of records deleted.
func (r *Reconciler) CleanupCloudDuplicates(ctx context.Context) (int, error) {
	records, err := r.transport.Query(ctx, string(model.KindScheduleEntry))
	if err != nil {
		return 0, fmt.Errorf("fetch schedule entries: %w", err)
	}

	seen := make(map[string]struct{})
	var steps []remote.Step
	for _, raw := range records {
		entry, warnings, err := remote.DecodeScheduleEntry(raw)
		if err != nil {
			// Records without identity are left alone; deleting them
			// would require an identifier we do not have.
			r.log.Warn().Err(err).Msg("decode_degraded")
			continue
		}
		for _, warn := range warnings {
			r.log.Warn().Err(warn).Str("id", entry.ID).Msg("decode_degraded")
		}

		key := ScheduleKey(entry)
		if _, dup := seen[key]; dup {
			steps = append(steps, remote.Delete{
				Namespace: string(model.KindScheduleEntry),
				ID:        entry.ID,
			})
			continue
		}
		seen[key] = struct{}{}
	}

	if err := remote.ApplyChunked(ctx, r.transport, steps); err != nil {
		return 0, fmt.Errorf("delete duplicates: %w", err)
	}

	r.log.Info().
		Int("scanned", len(records)).
		Int("deleted", len(steps)).
		Msg("cloud duplicate cleanup complete")
	return len(steps), nil
}
