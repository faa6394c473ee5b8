// Package searchidx ranks library items by free-text relevance using an
// in-memory bleve index over title, author and container-title.
package searchidx

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// indexDoc is the document shape handed to bleve; all fields feed _all.
type indexDoc struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Container string `json:"container"`
}

// Index is an immutable full-text index over one library snapshot.
type Index struct {
	idx bleve.Index
}

// Build indexes every item into a memory-only bleve index. The index is
// never mutated afterwards; a new snapshot gets a new index.
func Build(items []domain.Item) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	batch := idx.NewBatch()
	for _, item := range items {
		names := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			names = append(names, a.Given+" "+a.Family)
		}
		doc := indexDoc{
			Title:     item.Title,
			Author:    strings.Join(names, " "),
			Container: item.ContainerTitle,
		}
		if err := batch.Index(item.Key, doc); err != nil {
			return nil, fmt.Errorf("index item %s: %w", item.Key, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("commit search batch: %w", err)
	}

	return &Index{idx: idx}, nil
}

// Search returns item keys ranked by relevance for the query text. An empty
// or non-matching query yields an empty result, not an error.
func (s *Index) Search(query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	keys := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		keys = append(keys, hit.ID)
	}
	return keys, nil
}

// Close releases the in-memory index.
func (s *Index) Close() error {
	if err := s.idx.Close(); err != nil {
		return fmt.Errorf("close search index: %w", err)
	}
	return nil
}
