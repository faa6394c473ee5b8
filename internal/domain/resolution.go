package domain

// Resolution is the outcome of resolving a locator or search query: the
// matched items in order, plus the library version of the snapshot they
// came from. The version scopes request-level caches.
type Resolution struct {
	Items          []Item
	LibraryVersion string
}
