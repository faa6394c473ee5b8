package render

import "github.com/kailas-cloud/citedex/internal/domain"

// StyleProcessor formats a single item as a bibliography entry. The
// bibliography output format is the only one that needs style application;
// everything else derives from the item's own fields.
type StyleProcessor interface {
	FormatBibliography(styleID string, item domain.Item) (text, html string, err error)
}
