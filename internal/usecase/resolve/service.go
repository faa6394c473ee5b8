// Package resolve turns locators and citation references into concrete
// library items, applying the easykey disambiguation rules.
package resolve

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/citedex/internal/domain"
	"github.com/kailas-cloud/citedex/internal/repository/snapshot"
)

// Service resolves locators against library snapshots.
type Service struct {
	snapshots Snapshots
}

// New creates a resolver service.
func New(snapshots Snapshots) *Service {
	return &Service{snapshots: snapshots}
}

// Resolve maps a locator to an ordered item list.
//
// Key lists fail as a whole on the first unknown key. Easykey lists fail on
// an easykey with no match, but an easykey matching several items expands
// to all of them — collisions over (author, type, year) are real data, not
// errors, outside citation contexts.
func (s *Service) Resolve(ctx context.Context, loc domain.Locator) (domain.Resolution, error) {
	snap, err := s.snapshots.Acquire(ctx)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("acquire snapshot: %w", err)
	}

	var items []domain.Item
	switch loc.Kind {
	case domain.LocatorKeys:
		items, err = resolveKeys(snap, loc.Values)
	case domain.LocatorEasykeys:
		items, err = resolveEasykeys(snap, loc.Values)
	case domain.LocatorSelected:
		items = snap.Selected()
	case domain.LocatorCollection:
		var ok bool
		items, ok = snap.Collection(loc.Values[0])
		if !ok {
			err = fmt.Errorf("%q: %w", loc.Values[0], domain.ErrUnknownCollection)
		}
	case domain.LocatorAll:
		items = snap.Items()
	default:
		err = fmt.Errorf("locator kind %q: %w", loc.Kind, domain.ErrMissingOrConflictingLocator)
	}
	if err != nil {
		return domain.Resolution{}, err
	}
	return domain.Resolution{Items: items, LibraryVersion: snap.Version()}, nil
}

// ResolveRefs resolves citation references in exactly-one-match mode
// against a single snapshot. Any unknown or ambiguous reference fails the
// whole call; a citation must bind to exactly one item.
func (s *Service) ResolveRefs(ctx context.Context, refs []domain.CitationRef) ([]domain.Item, error) {
	snap, err := s.snapshots.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire snapshot: %w", err)
	}

	items := make([]domain.Item, 0, len(refs))
	for _, ref := range refs {
		item, err := resolveRef(snap, ref)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func resolveKeys(snap *snapshot.Snapshot, keys []string) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(keys))
	for _, key := range keys {
		item, ok := snap.Item(key)
		if !ok {
			return nil, fmt.Errorf("%q: %w", key, domain.ErrUnknownKey)
		}
		items = append(items, item)
	}
	return items, nil
}

func resolveEasykeys(snap *snapshot.Snapshot, easykeys []string) ([]domain.Item, error) {
	var items []domain.Item
	for _, raw := range easykeys {
		keys := lookupEasykey(snap, raw)
		if len(keys) == 0 {
			return nil, fmt.Errorf("%q: %w", raw, domain.ErrUnknownEasykey)
		}
		for _, key := range keys {
			if item, ok := snap.Item(key); ok {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

func resolveRef(snap *snapshot.Snapshot, ref domain.CitationRef) (domain.Item, error) {
	if ref.Key != "" {
		item, ok := snap.Item(ref.Key)
		if !ok {
			return domain.Item{}, fmt.Errorf("%q: %w", ref.Key, domain.ErrUnknownKey)
		}
		return item, nil
	}
	if ref.EasyKey == "" {
		return domain.Item{}, fmt.Errorf("citation item has neither easyKey nor key: %w", domain.ErrUnknownEasykey)
	}

	keys := lookupEasykey(snap, ref.EasyKey)
	switch len(keys) {
	case 0:
		return domain.Item{}, fmt.Errorf("%q: %w", ref.EasyKey, domain.ErrUnknownEasykey)
	case 1:
		item, ok := snap.Item(keys[0])
		if !ok {
			return domain.Item{}, fmt.Errorf("%q: %w", keys[0], domain.ErrUnknownKey)
		}
		return item, nil
	default:
		return domain.Item{}, fmt.Errorf("%q matches %d items: %w", ref.EasyKey, len(keys), domain.ErrAmbiguousReference)
	}
}

// lookupEasykey tries an exact index hit first; on a miss it interprets a
// trailing letter as a disambiguation suffix selecting the nth collision of
// the base easykey in item-key order.
func lookupEasykey(snap *snapshot.Snapshot, raw string) []string {
	idx := snap.Easykeys()
	norm := domain.NormalizeEasykey(raw)
	if keys := idx.LookupExact(norm); len(keys) > 0 {
		return keys
	}

	base, ordinal := domain.SplitEasykeySuffix(norm)
	if ordinal < 0 {
		return nil
	}
	keys := idx.LookupExact(base)
	if ordinal >= len(keys) {
		return nil
	}
	return keys[ordinal : ordinal+1]
}
