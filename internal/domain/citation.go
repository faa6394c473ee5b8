package domain

// CitationRef points one citation item at a library item, by easykey or by
// opaque key. Exactly one of the two should be set.
type CitationRef struct {
	EasyKey string `json:"easyKey,omitempty"`
	Key     string `json:"key,omitempty"`
}

// CitationProperties carries per-group style hints.
type CitationProperties struct {
	NoteIndex int `json:"noteIndex"`
}

// CitationGroup is one ordered group of citation items plus properties,
// transient per request.
type CitationGroup struct {
	Items      []CitationRef      `json:"citationItems"`
	Properties CitationProperties `json:"properties"`
}
