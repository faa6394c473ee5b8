// Package citation assembles citation clusters: style applied to ordered
// groups of resolved items, all-or-nothing.
package citation

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// Service assembles citation clusters.
type Service struct {
	resolver     Resolver
	styles       StyleProcessor
	defaultStyle string
}

// New creates a citation assembler.
func New(resolver Resolver, styles StyleProcessor, defaultStyle string) *Service {
	return &Service{resolver: resolver, styles: styles, defaultStyle: defaultStyle}
}

// Assemble resolves every reference of every group and applies the style
// per group, preserving input order. If any reference is unknown or
// ambiguous the whole request fails and no partial cluster is returned.
func (s *Service) Assemble(ctx context.Context, styleID string, groups []domain.CitationGroup) ([]string, error) {
	if styleID == "" {
		styleID = s.defaultStyle
	}

	// Resolve everything up front; formatting must never start on a
	// partially resolved request.
	var refs []domain.CitationRef
	for _, g := range groups {
		refs = append(refs, g.Items...)
	}
	items, err := s.resolver.ResolveRefs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("resolve citations: %w", err)
	}

	clusters := make([]string, 0, len(groups))
	next := 0
	for _, g := range groups {
		groupItems := items[next : next+len(g.Items)]
		next += len(g.Items)

		cluster, err := s.styles.FormatCluster(styleID, groupItems, g.Properties)
		if err != nil {
			return nil, fmt.Errorf("format cluster: %w", err)
		}
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}
