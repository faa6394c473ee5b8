package domain

import "strings"

// Name is one creator of an item.
type Name struct {
	Family string `json:"family"`
	Given  string `json:"given"`
}

// Date is a structured issue date. Only the year is required; the original
// string parts are kept so date-parts round-trip without reformatting.
type Date struct {
	Year  string
	Month string
	Day   string
}

// Parts returns the CSL date-parts row for the date, dropping empty parts.
func (d Date) Parts() []string {
	parts := []string{d.Year}
	if d.Month != "" {
		parts = append(parts, d.Month)
		if d.Day != "" {
			parts = append(parts, d.Day)
		}
	}
	return parts
}

// Item is one bibliographic record, immutable once loaded from the library.
// Key is the opaque library key; ID is the numeric library row id surfaced
// in CSL-JSON output. CustomKey, when present, is an author-supplied citekey
// that overrides the canonical easykey derivation.
type Item struct {
	Key            string `json:"key"`
	ID             int    `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title,omitempty"`
	ContainerTitle string `json:"container-title,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Page           string `json:"page,omitempty"`
	Authors        []Name `json:"author,omitempty"`
	Issued         Date   `json:"-"`
	CustomKey      string `json:"citekey,omitempty"`
}

// FirstAuthorFamily returns the family name of the first author, or "".
func (i Item) FirstAuthorFamily() string {
	if len(i.Authors) == 0 {
		return ""
	}
	return i.Authors[0].Family
}

// Year returns the issue year, or "".
func (i Item) Year() string { return i.Issued.Year }

// cslTypeWords maps CSL item types to the short type word used in easykeys
// and BibTeX entry keys. Types not listed fall back to the part of the CSL
// type before the first hyphen.
var cslTypeWords = map[string]string{
	"article-journal":   "article",
	"article-magazine":  "magazine",
	"article-newspaper": "newspaper",
	"book":              "book",
	"chapter":           "chapter",
	"paper-conference":  "paper",
	"report":            "report",
	"thesis":            "thesis",
	"webpage":           "webpage",
	"manuscript":        "manuscript",
}

// TypeWord returns the short type word for a CSL item type.
func TypeWord(cslType string) string {
	if w, ok := cslTypeWords[cslType]; ok {
		return w
	}
	if i := strings.IndexByte(cslType, '-'); i > 0 {
		return cslType[:i]
	}
	return cslType
}
