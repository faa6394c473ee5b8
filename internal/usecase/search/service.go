// Package search serves free-text item lookup and easykey completion.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// Service answers search and completion queries against a snapshot.
type Service struct {
	snapshots Snapshots
	limit     int
}

// New creates a search service. limit caps the number of ranked results
// per query; <= 0 uses the default.
func New(snapshots Snapshots, limit int) *Service {
	if limit <= 0 {
		limit = 100
	}
	return &Service{snapshots: snapshots, limit: limit}
}

// Search returns items ranked by free-text relevance over title, author
// and container-title.
func (s *Service) Search(ctx context.Context, query string) (domain.Resolution, error) {
	snap, err := s.snapshots.Acquire(ctx)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("acquire snapshot: %w", err)
	}

	keys, err := snap.SearchKeys(query, s.limit)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("search %q: %w", query, err)
	}

	items := make([]domain.Item, 0, len(keys))
	for _, key := range keys {
		if item, ok := snap.Item(key); ok {
			items = append(items, item)
		}
	}
	return domain.Resolution{Items: items, LibraryVersion: snap.Version()}, nil
}

// Complete returns every indexed easykey starting with the prefix, in
// stable alphabetical order with ties broken by item key. A prefix equal to
// a full easykey still completes to that one candidate; completion never
// fails on ambiguity.
func (s *Service) Complete(ctx context.Context, prefix string) ([]string, error) {
	snap, err := s.snapshots.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire snapshot: %w", err)
	}

	candidates := snap.Easykeys().LookupPrefix(domain.NormalizeEasykey(prefix))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Easykey)
	}
	return out, nil
}
