package render

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/citedex/internal/domain"
)

// bibtexEntryTypes maps short type words to BibTeX entry types.
var bibtexEntryTypes = map[string]string{
	"article":   "article",
	"magazine":  "article",
	"newspaper": "article",
	"book":      "book",
	"chapter":   "incollection",
	"paper":     "inproceedings",
	"thesis":    "phdthesis",
	"report":    "techreport",
}

type bibtexField struct {
	name  string
	value string
}

// bibtexEntry renders one item as a BibTeX entry block: fields in a fixed
// per-type order, tab-indented, no trailing blank line inside the entry.
func bibtexEntry(item domain.Item) (string, error) {
	family := item.FirstAuthorFamily()
	if family == "" {
		return "", fmt.Errorf("item %s has no author: %w", item.Key, domain.ErrMissingRequiredField)
	}
	year := item.Year()
	if year == "" {
		return "", fmt.Errorf("item %s has no year: %w", item.Key, domain.ErrMissingRequiredField)
	}

	word := domain.TypeWord(item.Type)
	entryType, ok := bibtexEntryTypes[word]
	if !ok {
		entryType = "misc"
	}
	entryKey := bibtexKey(family, word, year)

	var fields []bibtexField
	switch entryType {
	case "article":
		fields = []bibtexField{
			{"title", item.Title},
			{"volume", item.Volume},
			{"journal", item.ContainerTitle},
			{"author", bibtexAuthors(item.Authors)},
			{"year", year},
			{"pages", bibtexPages(item.Page)},
		}
	case "incollection", "inproceedings":
		fields = []bibtexField{
			{"title", item.Title},
			{"booktitle", item.ContainerTitle},
			{"author", bibtexAuthors(item.Authors)},
			{"year", year},
			{"pages", bibtexPages(item.Page)},
		}
	default:
		fields = []bibtexField{
			{"title", item.Title},
			{"volume", item.Volume},
			{"author", bibtexAuthors(item.Authors)},
			{"year", year},
		}
	}

	var b strings.Builder
	b.WriteString("\n@" + entryType + "{" + entryKey + ",")
	first := true
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if !first {
			b.WriteString(",")
		}
		first = false
		b.WriteString("\n\t" + f.name + " = {" + f.value + "}")
	}
	b.WriteString("\n}")
	return b.String(), nil
}

// bibtexKey derives the entry key: diacritics-folded lowercase surname,
// type word and year joined with underscores, e.g. "doe_article_2006".
func bibtexKey(family, typeWord, year string) string {
	folded := domain.NormalizeEasykey(family)
	folded = strings.ReplaceAll(folded, " ", "_")
	return folded + "_" + typeWord + "_" + year
}

func bibtexAuthors(authors []domain.Name) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		name := a.Family
		if a.Given != "" {
			name += ", " + a.Given
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " and ")
}

// bibtexPages doubles the range hyphen: "33-34" → "33--34".
func bibtexPages(pages string) string {
	return strings.Replace(pages, "-", "--", 1)
}
