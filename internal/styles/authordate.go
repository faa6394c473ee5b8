// Package styles ships the built-in citation style processor. The usecases
// depend only on their own StyleProcessor interfaces, so a full CSL engine
// can replace this package without touching the core.
package styles

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// DefaultStyle is applied when a request names no style.
const DefaultStyle = "chicago-author-date"

// knownStyles are the style ids the built-in processor can apply. They all
// share the author-date in-text form; the bibliography layout is Chicago.
var knownStyles = map[string]bool{
	"chicago-author-date": true,
	"apa":                 true,
}

// AuthorDate is a deterministic author-date style processor.
type AuthorDate struct{}

// NewAuthorDate creates the built-in style processor.
func NewAuthorDate() *AuthorDate { return &AuthorDate{} }

func checkStyle(styleID string) error {
	if styleID == "" {
		return nil
	}
	if !knownStyles[styleID] {
		return fmt.Errorf("%q: %w", styleID, domain.ErrUnknownStyle)
	}
	return nil
}

// FormatCluster renders one citation group as an in-text citation,
// e.g. "(Doe 2005)" or "(Doe 2005; Roe 2011)".
func (p *AuthorDate) FormatCluster(styleID string, items []domain.Item, props domain.CitationProperties) (string, error) {
	if err := checkStyle(styleID); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		label := item.FirstAuthorFamily()
		if label == "" {
			label = item.Title
		}
		year := item.Year()
		if year == "" {
			year = "n.d."
		}
		parts = append(parts, label+" "+year)
	}
	return "(" + strings.Join(parts, "; ") + ")", nil
}

// FormatBibliography renders one item as a bibliography entry, returning
// the plain-text form and an HTML fragment wrapping the entry together with
// a machine-readable COinS span.
func (p *AuthorDate) FormatBibliography(styleID string, item domain.Item) (text, html string, err error) {
	if err := checkStyle(styleID); err != nil {
		return "", "", err
	}

	text = entryText(item, false)
	entry := entryText(item, true)
	html = "<div style=\"line-height: 1.35; padding-left: 2em; text-indent:-2em;\" class=\"csl-bib-body\">\n" +
		"  <div class=\"csl-entry\">" + entry + "</div>\n" +
		"  <span class=\"Z3988\" title=\"" + coins(item) + "\"></span>\n" +
		"</div>"
	return text, html, nil
}

// entryText lays out a Chicago-like entry. The html flag switches container
// and book titles to <i> markup; everything else is shared.
func entryText(item domain.Item, html bool) string {
	var b strings.Builder

	if names := formatAuthors(item.Authors); names != "" {
		b.WriteString(names)
		b.WriteString(". ")
	}

	switch domain.TypeWord(item.Type) {
	case "article", "magazine", "newspaper", "paper", "chapter":
		b.WriteString("“" + item.Title + ".” ")
		if item.ContainerTitle != "" {
			b.WriteString(italic(item.ContainerTitle, html))
			if item.Volume != "" {
				b.WriteString(" " + item.Volume)
			}
			if item.Year() != "" {
				b.WriteString(" (" + item.Year() + ")")
			}
			if item.Page != "" {
				b.WriteString(": " + enDash(item.Page))
			}
			b.WriteString(".")
		} else if item.Year() != "" {
			b.WriteString(item.Year() + ".")
		}
	default:
		b.WriteString(italic(item.Title, html) + ". ")
		if item.Year() != "" {
			b.WriteString(item.Year() + ".")
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// formatAuthors inverts the first author and lists the rest in given-family
// order: "Doe, John, and Jane Roe".
func formatAuthors(authors []domain.Name) string {
	if len(authors) == 0 {
		return ""
	}
	first := authors[0].Family
	if authors[0].Given != "" {
		first += ", " + authors[0].Given
	}
	if len(authors) == 1 {
		return first
	}

	rest := make([]string, 0, len(authors)-1)
	for _, a := range authors[1:] {
		name := a.Family
		if a.Given != "" {
			name = a.Given + " " + a.Family
		}
		rest = append(rest, name)
	}
	if len(rest) == 1 {
		return first + ", and " + rest[0]
	}
	return first + ", " + strings.Join(rest[:len(rest)-1], ", ") + ", and " + rest[len(rest)-1]
}

func italic(s string, html bool) string {
	if html {
		return "<i>" + s + "</i>"
	}
	return s
}

// enDash turns a plain page range into a typographic one: "33-34" → "33–34".
func enDash(pages string) string {
	return strings.Replace(pages, "-", "–", 1)
}
