package resolve

import (
	"context"

	"github.com/kailas-cloud/citedex/internal/repository/snapshot"
)

// Snapshots hands out consistent library views. Every resolution acquires
// exactly one snapshot and works against it for the whole request.
type Snapshots interface {
	Acquire(ctx context.Context) (*snapshot.Snapshot, error)
}
