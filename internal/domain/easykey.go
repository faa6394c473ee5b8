package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFD, drops combining marks and recomposes,
// so "Hüning" and "Hüning" fold to the same bytes.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeEasykey folds an easykey for matching: diacritics stripped,
// case lowered. The display form is kept separately by the index.
func NormalizeEasykey(raw string) string {
	folded, _, err := transform.String(foldTransformer, raw)
	if err != nil {
		// Fall back to case folding only; a malformed rune sequence still
		// has to normalize identically on index and query sides.
		return strings.ToLower(raw)
	}
	return strings.ToLower(folded)
}

// Easykey returns the canonical display easykey of an item:
// <FirstAuthorFamily><TypeWord><Year>, e.g. "DoeBook2005".
// Returns "" when the item has no author surname or year to derive from.
func Easykey(item Item) string {
	family := item.FirstAuthorFamily()
	if family == "" || item.Year() == "" {
		return ""
	}
	return family + capitalize(TypeWord(item.Type)) + item.Year()
}

// EasykeyColon returns the alternate colon form of an item's easykey:
// <family>:<year><typeword>, e.g. "doe:2005book". This is also the form the
// easykey output format emits.
func EasykeyColon(item Item) string {
	family := item.FirstAuthorFamily()
	if family == "" || item.Year() == "" {
		return ""
	}
	return strings.ToLower(family) + ":" + item.Year() + TypeWord(item.Type)
}

// SplitEasykeySuffix splits a disambiguation suffix (a single trailing
// letter a-z after the year or type word) from an easykey. The second
// return is -1 when no suffix is present, otherwise the collision ordinal
// the suffix selects (a=0, b=1, ...).
func SplitEasykeySuffix(key string) (base string, ordinal int) {
	if key == "" {
		return key, -1
	}
	last := key[len(key)-1]
	if last < 'a' || last > 'z' {
		return key, -1
	}
	return key[:len(key)-1], int(last - 'a')
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
