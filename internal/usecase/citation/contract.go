package citation

import (
	"context"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// Resolver resolves citation references in exactly-one-match mode. A single
// call covers every reference of a request so they all see one snapshot.
type Resolver interface {
	ResolveRefs(ctx context.Context, refs []domain.CitationRef) ([]domain.Item, error)
}

// StyleProcessor applies a citation style to one resolved group. Style
// application is deterministic given the same items and properties; this is
// the only seam through which style internals are reachable.
type StyleProcessor interface {
	FormatCluster(styleID string, items []domain.Item, props domain.CitationProperties) (string, error)
}
