package health

import "context"

// LibraryPinger checks library store availability.
type LibraryPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotChecker verifies a library snapshot can be acquired.
type SnapshotChecker interface {
	HealthCheck(ctx context.Context) error
}
