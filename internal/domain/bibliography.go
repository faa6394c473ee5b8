package domain

// BibEntry is one formatted bibliography entry: a plain-text rendering, an
// HTML fragment with an embedded COinS span, and the item key for
// correlation.
type BibEntry struct {
	Text string `json:"text"`
	HTML string `json:"html"`
	Key  string `json:"key"`
}
