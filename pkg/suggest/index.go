package suggest

import (
	"sync"

	"github.com/charmbracelet/log"

	"rankserve.io/rankserve/pkg/trie"
)

// Suggestion is one ranked completion.
type Suggestion struct {
	Key   string
	Score int
	Value any
}

// Index serializes access to a single tree. All operations take the
// exclusive lock, Complete included: the lazy sort mutates node state
// during what looks like a read, so readers cannot share the tree with
// each other either.
type Index struct {
	mu   sync.Mutex
	tree *trie.Tree
}

// NewIndex creates an empty index with the given fanout promotion
// threshold (values below 1 fall back to the tree default).
func NewIndex(fanoutThreshold int) *Index {
	return &Index{tree: trie.New(fanoutThreshold)}
}

// Add inserts an entry keyed by itself for de-duplication.
func (ix *Index) Add(key string, score int, value any) error {
	return ix.AddDistinct(key, score, value, "")
}

// AddDistinct inserts an entry with a secondary identity used only for
// de-duplication at query time.
func (ix *Index) AddDistinct(key string, score int, value any, distinct string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	err := ix.tree.Add(trie.Item{Key: key, Score: score, Value: value, Distinct: distinct})
	if err != nil {
		log.Debugf("Rejected entry %q: %v", key, err)
	}
	return err
}

// Complete returns up to limit suggestions whose key starts with prefix,
// highest score first. With unique set, no two results share an identity.
func (ix *Index) Complete(prefix string, limit int, unique bool) []Suggestion {
	if limit < 1 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	entry := ix.tree.Resolve(prefix)
	if entry == nil {
		return nil
	}
	items := entry.TopItems(prefix, trie.Options{Limit: limit, Unique: unique})
	if len(items) == 0 {
		return nil
	}

	suggestions := make([]Suggestion, len(items))
	for i, it := range items {
		suggestions[i] = Suggestion{Key: it.Key, Score: it.Score, Value: it.Value}
	}
	return suggestions
}

// Delete removes at most one entry matching (key, distinct) and reports
// whether anything was removed.
func (ix *Index) Delete(key, distinct string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.tree.Delete(key, distinct)
}

// Stats returns statistics about the loaded index.
func (ix *Index) Stats() map[string]int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	return map[string]int{
		"totalEntries":    ix.tree.Len(),
		"maxScore":        ix.tree.MaxScore(),
		"fanoutThreshold": ix.tree.Threshold(),
	}
}
