// Package render converts resolved items into the supported output
// representations. Rendering is pure: the same item and format always
// produce the same bytes, which is what makes the bibliography cache safe.
package render

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/citedex/internal/domain"
	"github.com/kailas-cloud/citedex/internal/metrics"
)

// Format is one of the supported output representations.
type Format string

const (
	FormatKey          Format = "key"
	FormatEasykey      Format = "easykey"
	FormatJSON         Format = "json"
	FormatBibtex       Format = "bibtex"
	FormatBibliography Format = "bibliography"
)

// ParseFormat validates a format parameter; empty means json.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatJSON, nil
	case FormatKey, FormatEasykey, FormatJSON, FormatBibtex, FormatBibliography:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%q: %w", s, domain.ErrUnknownFormat)
	}
}

// Rendered is the outcome of rendering a list of items. Values carries one
// JSON-marshalable value per item in resolution order; Text replaces it for
// the bibtex format, which is emitted as plain text.
type Rendered struct {
	Format Format
	Values []any
	Text   string
}

const bibCacheSize = 4096

// Service renders items. Formatted bibliography entries are cached per
// (library version, style, item key) since style application dominates the
// cost of an items request.
type Service struct {
	styles       StyleProcessor
	defaultStyle string
	bibCache     *lru.Cache[string, domain.BibEntry]
}

// New creates a renderer service.
func New(styles StyleProcessor, defaultStyle string) (*Service, error) {
	cache, err := lru.New[string, domain.BibEntry](bibCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create bibliography cache: %w", err)
	}
	return &Service{styles: styles, defaultStyle: defaultStyle, bibCache: cache}, nil
}

// Render renders every item in order. styleID applies to the bibliography
// format only and falls back to the configured default; libVersion scopes
// the bibliography cache to the current snapshot.
func (s *Service) Render(items []domain.Item, format Format, styleID, libVersion string) (Rendered, error) {
	out := Rendered{Format: format}

	if format == FormatBibtex {
		for _, item := range items {
			entry, err := bibtexEntry(item)
			if err != nil {
				return Rendered{}, err
			}
			out.Text += entry
		}
		return out, nil
	}

	out.Values = make([]any, 0, len(items))
	for _, item := range items {
		value, err := s.renderOne(item, format, styleID, libVersion)
		if err != nil {
			return Rendered{}, err
		}
		out.Values = append(out.Values, value)
	}
	return out, nil
}

func (s *Service) renderOne(item domain.Item, format Format, styleID, libVersion string) (any, error) {
	switch format {
	case FormatKey:
		return item.Key, nil
	case FormatEasykey:
		key := domain.EasykeyColon(item)
		if key == "" {
			return nil, fmt.Errorf("item %s has no author or year for an easykey: %w",
				item.Key, domain.ErrMissingRequiredField)
		}
		return key, nil
	case FormatJSON:
		return cslItem(item), nil
	case FormatBibliography:
		return s.bibliography(item, styleID, libVersion)
	default:
		return nil, fmt.Errorf("%q: %w", format, domain.ErrUnknownFormat)
	}
}

func (s *Service) bibliography(item domain.Item, styleID, libVersion string) (domain.BibEntry, error) {
	if styleID == "" {
		styleID = s.defaultStyle
	}

	cacheKey := libVersion + "\x00" + styleID + "\x00" + item.Key
	if entry, ok := s.bibCache.Get(cacheKey); ok {
		metrics.BibliographyCacheTotal.WithLabelValues("hit").Inc()
		return entry, nil
	}
	metrics.BibliographyCacheTotal.WithLabelValues("miss").Inc()

	text, html, err := s.styles.FormatBibliography(styleID, item)
	if err != nil {
		return domain.BibEntry{}, fmt.Errorf("format bibliography for %s: %w", item.Key, err)
	}
	entry := domain.BibEntry{Text: text, HTML: html, Key: item.Key}
	s.bibCache.Add(cacheKey, entry)
	return entry, nil
}
