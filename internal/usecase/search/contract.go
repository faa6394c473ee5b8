package search

import (
	"context"

	"github.com/kailas-cloud/citedex/internal/repository/snapshot"
)

// Snapshots hands out consistent library views.
type Snapshots interface {
	Acquire(ctx context.Context) (*snapshot.Snapshot, error)
}
