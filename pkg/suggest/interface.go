// Package suggest wraps the core tree behind a mutation lock and exposes
// the ranked completion surface the server and CLI consume.
package suggest

// ISuggester defines the interface for ranked prefix completion engines.
type ISuggester interface {
	// Complete returns ranked suggestions for a prefix.
	Complete(prefix string, limit int, unique bool) []Suggestion

	// Add inserts an entry with its score and payload.
	Add(key string, score int, value any) error

	// Delete removes at most one entry matching (key, distinct).
	Delete(key, distinct string) bool

	// Stats returns statistics about the loaded index.
	Stats() map[string]int
}
