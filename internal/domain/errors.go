package domain

import "errors"

var (
	// ErrMissingOrConflictingLocator signals that a request carried zero or
	// more than one locator parameter.
	ErrMissingOrConflictingLocator = errors.New("exactly one locator is required")
	// ErrUnknownKey signals a library key absent from the item store.
	ErrUnknownKey = errors.New("unknown item key")
	// ErrUnknownEasykey signals an easykey with no index match.
	ErrUnknownEasykey = errors.New("unknown easykey")
	// ErrAmbiguousReference signals an easykey matching more than one item
	// in a context that requires exactly one.
	ErrAmbiguousReference = errors.New("ambiguous reference")
	// ErrMissingRequiredField signals an item lacking a field the requested
	// output format cannot do without.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrUnknownCollection signals a collection name absent from the library.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnknownFormat signals an unsupported output format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnknownStyle signals a citation style the processor cannot apply.
	ErrUnknownStyle = errors.New("unknown citation style")
)
