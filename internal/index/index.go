// Package index builds the easykey lookup index over a library snapshot.
// An Index is immutable after Build; concurrent readers need no locking.
package index

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// Candidate is one completion result: the display form of an indexed
// easykey plus the item key it points at.
type Candidate struct {
	Easykey string
	Key     string
}

type entry struct {
	norm    string
	display string
	keys    []string
}

// Index maps normalized easykeys to item keys. Custom (author-supplied)
// keys live in their own table layered over the canonical derivation, so an
// explicit citekey wins without disturbing the derived entries.
type Index struct {
	custom    map[string]*entry
	canonical map[string]*entry
	ordered   []Candidate
}

// Build derives the canonical and colon-form easykeys of every item,
// normalizes them and indexes them pointing at the item's key. Items with
// an explicit custom key get that indexed too, case-insensitively.
func Build(items []domain.Item) *Index {
	idx := &Index{
		custom:    make(map[string]*entry),
		canonical: make(map[string]*entry),
	}
	for _, item := range items {
		idx.insert(idx.canonical, domain.Easykey(item), item.Key)
		idx.insert(idx.canonical, domain.EasykeyColon(item), item.Key)
		if item.CustomKey != "" {
			idx.insert(idx.custom, item.CustomKey, item.Key)
		}
	}
	idx.finish()
	return idx
}

func (idx *Index) insert(table map[string]*entry, display, itemKey string) {
	if display == "" {
		return
	}
	norm := domain.NormalizeEasykey(display)
	e, ok := table[norm]
	if !ok {
		e = &entry{norm: norm, display: display}
		table[norm] = e
	}
	e.keys = append(e.keys, itemKey)
}

// finish sorts collision sets and precomputes the ordered candidate list
// used for prefix scans.
func (idx *Index) finish() {
	for _, table := range []map[string]*entry{idx.custom, idx.canonical} {
		for _, e := range table {
			sort.Strings(e.keys)
			for _, k := range e.keys {
				idx.ordered = append(idx.ordered, Candidate{Easykey: e.display, Key: k})
			}
		}
	}
	sort.Slice(idx.ordered, func(i, j int) bool {
		if idx.ordered[i].Easykey != idx.ordered[j].Easykey {
			return idx.ordered[i].Easykey < idx.ordered[j].Easykey
		}
		return idx.ordered[i].Key < idx.ordered[j].Key
	})
}

// LookupExact returns the item keys indexed under the normalized easykey.
// The custom-key table is consulted first; only on a miss does the
// canonical derivation apply. A nil result means no match; a result with
// more than one key is a valid collision, never collapsed to one item.
func (idx *Index) LookupExact(normalized string) []string {
	if e, ok := idx.custom[normalized]; ok {
		return e.keys
	}
	if e, ok := idx.canonical[normalized]; ok {
		return e.keys
	}
	return nil
}

// LookupPrefix returns every candidate whose normalized easykey starts with
// the normalized prefix, ordered alphabetically by display form with ties
// broken by item key.
func (idx *Index) LookupPrefix(normalizedPrefix string) []Candidate {
	var out []Candidate
	for _, c := range idx.ordered {
		if strings.HasPrefix(domain.NormalizeEasykey(c.Easykey), normalizedPrefix) {
			out = append(out, c)
		}
	}
	return out
}

// Size returns the number of indexed (easykey, item) pairs.
func (idx *Index) Size() int { return len(idx.ordered) }
