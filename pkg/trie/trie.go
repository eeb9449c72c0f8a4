/*
Package trie implements the scored prefix index at the heart of rankserve.

The tree adapts its shape to the data: every node starts life as a flat
leaf bucket, and only converts into a character-keyed branch once the
bucket outgrows the configured fanout threshold. Small clusters of keys
stay cheap to linear-scan; hot prefixes get indexed per character.

Retrieval is lazy on two axes. Nodes are sorted on first read, not on
mutation, so construction never pays for ordering subtrees no query will
visit. And ranked queries expand the tree best-first through a priority
frontier, one level per step, so producing the top K results touches an
amount of the subtree proportional to K rather than to its size.

The tree itself is not safe for concurrent use; pkg/suggest provides the
locked wrapper production callers should go through.
*/
package trie

import (
	"errors"

	"github.com/cespare/xxhash/v2"
)

// DefaultFanoutThreshold is the leaf bucket size past which a node splits
// into per-character children.
const DefaultFanoutThreshold = 16

// ErrEmptyKey is returned by Add for items with an empty key. Empty keys
// have no path in the tree and are rejected at the boundary.
var ErrEmptyKey = errors.New("trie: empty key")

// Item is one inserted record. Items are immutable once inserted; deletion
// removes them by exact (Key, Distinct) match.
type Item struct {
	Key      string
	Score    int
	Value    any
	Distinct string
}

// Identity returns the de-duplication identity: Distinct when set, the key
// itself otherwise.
func (it *Item) Identity() string {
	if it.Distinct != "" {
		return it.Distinct
	}
	return it.Key
}

// Priority implements frontier.Entry.
func (it *Item) Priority() int { return it.Score }

// FrontierKey implements frontier.Keyer with a hash of the identity.
func (it *Item) FrontierKey() uint64 { return xxhash.Sum64String(it.Identity()) }

// Tree owns a root node and the fanout threshold fixed at construction.
type Tree struct {
	root      *Node
	threshold int
	size      int
}

// New creates an empty tree. A threshold below 1 falls back to
// DefaultFanoutThreshold.
func New(threshold int) *Tree {
	if threshold < 1 {
		threshold = DefaultFanoutThreshold
	}
	return &Tree{root: newLeaf(), threshold: threshold}
}

// Add inserts one item. Duplicate items coexist until deleted.
func (t *Tree) Add(it Item) error {
	if it.Key == "" {
		return ErrEmptyKey
	}
	item := it
	t.root.add(&item, 0, t.threshold)
	t.size++
	return nil
}

// Resolve returns the node owning every match of prefix, or nil when no
// inserted key starts with it. A nil result is a normal zero-match outcome,
// not a fault.
func (t *Tree) Resolve(prefix string) *Node {
	return t.root.resolve(prefix, 0)
}

// Delete removes at most one item matching (key, distinct) and prunes any
// subtree the removal emptied. It reports whether an item was removed.
func (t *Tree) Delete(key, distinct string) bool {
	if key == "" {
		return false
	}
	removed, empty := t.root.remove(key, distinct, 0)
	if empty {
		t.root = newLeaf()
	}
	if removed {
		t.size--
	}
	return removed
}

// Len returns the number of items currently held.
func (t *Tree) Len() int { return t.size }

// MaxScore returns the highest score among all held items, 0 when empty.
func (t *Tree) MaxScore() int { return t.root.score }

// Threshold returns the fanout promotion threshold.
func (t *Tree) Threshold() int { return t.threshold }
