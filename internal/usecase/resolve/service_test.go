package resolve

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/citedex/internal/domain"
	"github.com/kailas-cloud/citedex/internal/library"
	"github.com/kailas-cloud/citedex/internal/repository/snapshot"
)

// stubStore serves a fixed in-memory library.
type stubStore struct {
	lib library.Library
}

func (s *stubStore) Load(ctx context.Context) (library.Library, error) { return s.lib, nil }
func (s *stubStore) Version(ctx context.Context) (string, error)       { return s.lib.Version, nil }
func (s *stubStore) Ping(ctx context.Context) error                    { return nil }
func (s *stubStore) Close()                                            {}

func newTestService(t *testing.T, items []domain.Item, collections map[string][]string, selected []string) *Service {
	t.Helper()
	store := &stubStore{lib: library.Library{
		Version:     "v1",
		Items:       items,
		Collections: collections,
		Selected:    selected,
	}}
	return New(snapshot.NewProvider(store, zap.NewNop()))
}

func libraryItems() []domain.Item {
	return []domain.Item{
		{
			Key:     "0_ZBZQ4KMP",
			Type:    "book",
			Title:   "First Book",
			Authors: []domain.Name{{Family: "Doe", Given: "John"}},
			Issued:  domain.Date{Year: "2005"},
		},
		{
			Key:     "0_4T8MCITQ",
			Type:    "article-journal",
			Title:   "Article",
			Authors: []domain.Name{{Family: "Doe", Given: "John"}},
			Issued:  domain.Date{Year: "2006"},
		},
		{
			Key:     "0_AAAA0001",
			Type:    "book",
			Title:   "Second Book",
			Authors: []domain.Name{{Family: "Doe", Given: "Jane"}},
			Issued:  domain.Date{Year: "2005"},
		},
	}
}

func TestResolve_Keys(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	res, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorKeys,
		Values: []string{"0_4T8MCITQ", "0_ZBZQ4KMP"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Items) != 2 || res.Items[0].Key != "0_4T8MCITQ" || res.Items[1].Key != "0_ZBZQ4KMP" {
		t.Errorf("items = %+v", res.Items)
	}
	if res.LibraryVersion != "v1" {
		t.Errorf("version = %q", res.LibraryVersion)
	}
}

func TestResolve_UnknownKeyFailsWhole(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	_, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorKeys,
		Values: []string{"0_ZBZQ4KMP", "0_MISSING"},
	})
	if !errors.Is(err, domain.ErrUnknownKey) {
		t.Errorf("err = %v, want ErrUnknownKey", err)
	}
}

func TestResolve_Easykey(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	res, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorEasykeys,
		Values: []string{"doe:2006article"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Key != "0_4T8MCITQ" {
		t.Errorf("items = %+v", res.Items)
	}
}

func TestResolve_EasykeyCollisionReturnsAll(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	res, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorEasykeys,
		Values: []string{"DoeBook2005"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Both 2005 books collide on the easykey; a lookup returns them all.
	if len(res.Items) != 2 {
		t.Errorf("items = %+v, want both collision members", res.Items)
	}
}

func TestResolve_EasykeySuffixSelectsCollisionMember(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)

	// Suffix ordinals select within the item-key-ordered collision set:
	// "a" -> 0_AAAA0001, "b" -> 0_ZBZQ4KMP.
	res, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorEasykeys,
		Values: []string{"DoeBook2005b"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Key != "0_ZBZQ4KMP" {
		t.Errorf("items = %+v, want [0_ZBZQ4KMP]", res.Items)
	}

	// A suffix past the collision set is a miss, not a wrap-around.
	_, err = svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorEasykeys,
		Values: []string{"DoeBook2005c"},
	})
	if !errors.Is(err, domain.ErrUnknownEasykey) {
		t.Errorf("err = %v, want ErrUnknownEasykey", err)
	}
}

func TestResolve_UnknownEasykey(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	_, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorEasykeys,
		Values: []string{"FooBar0000"},
	})
	if !errors.Is(err, domain.ErrUnknownEasykey) {
		t.Errorf("err = %v, want ErrUnknownEasykey", err)
	}
}

func TestResolve_Collection(t *testing.T) {
	svc := newTestService(t, libraryItems(), map[string][]string{
		"My Collection": {"0_ZBZQ4KMP", "0_4T8MCITQ"},
	}, nil)

	res, err := svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorCollection,
		Values: []string{"My Collection"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("items = %+v", res.Items)
	}

	_, err = svc.Resolve(context.Background(), domain.Locator{
		Kind:   domain.LocatorCollection,
		Values: []string{"Nope"},
	})
	if !errors.Is(err, domain.ErrUnknownCollection) {
		t.Errorf("err = %v, want ErrUnknownCollection", err)
	}
}

func TestResolve_SelectedAndAll(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, []string{"0_4T8MCITQ"})

	res, err := svc.Resolve(context.Background(), domain.Locator{Kind: domain.LocatorSelected})
	if err != nil {
		t.Fatalf("Resolve selected: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Key != "0_4T8MCITQ" {
		t.Errorf("selected items = %+v", res.Items)
	}

	res, err = svc.Resolve(context.Background(), domain.Locator{Kind: domain.LocatorAll})
	if err != nil {
		t.Fatalf("Resolve all: %v", err)
	}
	if len(res.Items) != 3 {
		t.Errorf("all items = %d, want 3", len(res.Items))
	}
}

func TestResolveRefs_ExactlyOne(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)

	items, err := svc.ResolveRefs(context.Background(), []domain.CitationRef{
		{EasyKey: "doe:2006article"},
		{Key: "0_ZBZQ4KMP"},
	})
	if err != nil {
		t.Fatalf("ResolveRefs: %v", err)
	}
	if len(items) != 2 || items[0].Key != "0_4T8MCITQ" || items[1].Key != "0_ZBZQ4KMP" {
		t.Errorf("items = %+v", items)
	}
}

func TestResolveRefs_AmbiguousFails(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	_, err := svc.ResolveRefs(context.Background(), []domain.CitationRef{
		{EasyKey: "DoeBook2005"},
	})
	if !errors.Is(err, domain.ErrAmbiguousReference) {
		t.Errorf("err = %v, want ErrAmbiguousReference", err)
	}
}

func TestResolveRefs_SuffixDisambiguates(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	items, err := svc.ResolveRefs(context.Background(), []domain.CitationRef{
		{EasyKey: "DoeBook2005a"},
	})
	if err != nil {
		t.Fatalf("ResolveRefs: %v", err)
	}
	if len(items) != 1 || items[0].Key != "0_AAAA0001" {
		t.Errorf("items = %+v, want [0_AAAA0001]", items)
	}
}

func TestResolveRefs_EmptyRef(t *testing.T) {
	svc := newTestService(t, libraryItems(), nil, nil)
	_, err := svc.ResolveRefs(context.Background(), []domain.CitationRef{{}})
	if !errors.Is(err, domain.ErrUnknownEasykey) {
		t.Errorf("err = %v, want ErrUnknownEasykey", err)
	}
}
