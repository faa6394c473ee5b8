package domain

import "fmt"

// LocatorKind enumerates the ways a request can point at library items.
type LocatorKind string

const (
	LocatorKeys       LocatorKind = "key"
	LocatorEasykeys   LocatorKind = "easykey"
	LocatorSelected   LocatorKind = "selected"
	LocatorCollection LocatorKind = "collection"
	LocatorAll        LocatorKind = "all"
)

// Locator identifies the items a request targets. Exactly one kind must be
// set per request; Values carries the comma-split keys or easykeys for the
// key/easykey kinds and the collection name for the collection kind.
type Locator struct {
	Kind   LocatorKind
	Values []string
}

// NewLocator validates that exactly one locator parameter was supplied and
// builds the Locator for it. Parameters map kind to raw values; kinds that
// take no values (selected, all) may map to anything non-empty.
func NewLocator(params map[LocatorKind][]string) (Locator, error) {
	var found []LocatorKind
	for kind, values := range params {
		if len(values) > 0 {
			found = append(found, kind)
		}
	}
	if len(found) != 1 {
		return Locator{}, fmt.Errorf("got %d locator parameters: %w", len(found), ErrMissingOrConflictingLocator)
	}

	kind := found[0]
	loc := Locator{Kind: kind}
	switch kind {
	case LocatorKeys, LocatorEasykeys, LocatorCollection:
		loc.Values = params[kind]
		if len(loc.Values) == 0 || loc.Values[0] == "" {
			return Locator{}, fmt.Errorf("empty %s locator: %w", kind, ErrMissingOrConflictingLocator)
		}
	case LocatorSelected, LocatorAll:
		// Value-less kinds.
	}
	return loc, nil
}
