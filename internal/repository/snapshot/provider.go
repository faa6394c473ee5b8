// Package snapshot builds immutable per-version views of the reference
// library: the decoded items plus the easykey and full-text indexes derived
// from them. Every request resolves against one snapshot, so a library
// changing mid-request can never produce torn results.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/citedex/internal/domain"
	"github.com/kailas-cloud/citedex/internal/index"
	"github.com/kailas-cloud/citedex/internal/library"
	"github.com/kailas-cloud/citedex/internal/metrics"
	"github.com/kailas-cloud/citedex/internal/repository/searchidx"
)

// Snapshot is one consistent, immutable view of the library.
type Snapshot struct {
	version     string
	items       []domain.Item
	byKey       map[string]domain.Item
	collections map[string][]string
	selected    []string
	easykeys    *index.Index
	search      *searchidx.Index
}

// Version returns the store version the snapshot was built at.
func (s *Snapshot) Version() string { return s.version }

// Items returns every item in load order.
func (s *Snapshot) Items() []domain.Item { return s.items }

// Item looks up one item by its opaque library key.
func (s *Snapshot) Item(key string) (domain.Item, bool) {
	item, ok := s.byKey[key]
	return item, ok
}

// Collection returns the members of a named collection in membership order.
// The second return is false when the collection does not exist.
func (s *Snapshot) Collection(name string) ([]domain.Item, bool) {
	keys, ok := s.collections[name]
	if !ok {
		return nil, false
	}
	return s.itemsFor(keys), true
}

// Selected returns the externally reported current selection.
func (s *Snapshot) Selected() []domain.Item {
	return s.itemsFor(s.selected)
}

// Easykeys returns the easykey index of this snapshot.
func (s *Snapshot) Easykeys() *index.Index { return s.easykeys }

// SearchKeys returns item keys ranked by free-text relevance.
func (s *Snapshot) SearchKeys(query string, limit int) ([]string, error) {
	return s.search.Search(query, limit)
}

func (s *Snapshot) itemsFor(keys []string) []domain.Item {
	items := make([]domain.Item, 0, len(keys))
	for _, k := range keys {
		if item, ok := s.byKey[k]; ok {
			items = append(items, item)
		}
	}
	return items
}

// Provider hands out snapshots, rebuilding when the store version moves.
// Concurrent requests hitting a stale snapshot share one rebuild via
// singleflight; the published snapshot is never mutated afterwards.
type Provider struct {
	store  library.Store
	logger *zap.Logger
	group  singleflight.Group

	mu  sync.RWMutex
	cur *Snapshot
}

// NewProvider creates a snapshot provider over a library store.
func NewProvider(store library.Store, logger *zap.Logger) *Provider {
	return &Provider{store: store, logger: logger}
}

// Acquire returns a snapshot consistent with the store version current at
// the time of the call. The returned snapshot stays valid for the whole
// request even if the store changes underneath.
func (p *Provider) Acquire(ctx context.Context) (*Snapshot, error) {
	version, err := p.store.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("store version: %w", err)
	}

	if snap := p.current(); snap != nil && snap.version == version {
		return snap, nil
	}

	built, err, _ := p.group.Do(version, func() (any, error) {
		// Another flight may have published this version already.
		if snap := p.current(); snap != nil && snap.version == version {
			return snap, nil
		}
		snap, err := p.build(ctx)
		if err != nil {
			return nil, err
		}
		p.publish(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return built.(*Snapshot), nil
}

func (p *Provider) current() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur
}

func (p *Provider) publish(snap *Snapshot) {
	p.mu.Lock()
	p.cur = snap
	p.mu.Unlock()
}

func (p *Provider) build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	lib, err := p.store.Load(ctx)
	if err != nil {
		metrics.SnapshotRebuildsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load library: %w", err)
	}

	search, err := searchidx.Build(lib.Items)
	if err != nil {
		metrics.SnapshotRebuildsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build search index: %w", err)
	}

	snap := &Snapshot{
		version:     lib.Version,
		items:       lib.Items,
		byKey:       make(map[string]domain.Item, len(lib.Items)),
		collections: lib.Collections,
		selected:    lib.Selected,
		easykeys:    index.Build(lib.Items),
		search:      search,
	}
	for _, item := range lib.Items {
		snap.byKey[item.Key] = item
	}

	metrics.SnapshotRebuildsTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotRebuildDuration.Observe(time.Since(start).Seconds())
	metrics.SnapshotItems.Set(float64(len(lib.Items)))
	p.logger.Info("library snapshot rebuilt",
		zap.String("version", lib.Version),
		zap.Int("items", len(lib.Items)),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}
