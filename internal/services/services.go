// Package services implements the edit paths the UI calls: validated CRUD
// over the local store, cascade tombstoning on deletes, recurrence
// materialization, and a sync request after every successful mutation.
package services

import (
	"context"
	"fmt"

	"github.com/famlog/famlog/internal/model"
)

// Syncer schedules a background sync after a local mutation.
type Syncer interface {
	RequestSync()
}

// Tombstoner records local deletions so sync does not resurrect them.
type Tombstoner interface {
	MarkDeleted(ctx context.Context, kind model.Kind, id string)
}

func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", model.ErrValidation, name)
	}
	return nil
}
