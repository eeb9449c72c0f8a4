package trie

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"rankserve.io/rankserve/pkg/frontier"
)

// Options control one ranked retrieval.
type Options struct {
	// Limit caps the number of results; it must be positive.
	Limit int
	// Unique drops results whose identity was already returned.
	Unique bool
}

// TopResults returns up to opts.Limit payload values in descending score
// order for keys starting with prefix, starting from the entry node
// returned by Resolve.
func (n *Node) TopResults(prefix string, opts Options) []any {
	items := n.TopItems(prefix, opts)
	if len(items) == 0 {
		return nil
	}
	values := make([]any, len(items))
	for i, it := range items {
		values[i] = it.Value
	}
	return values
}

// TopItems is TopResults with the full items, for callers that need key
// and score alongside the payload.
func (n *Node) TopItems(prefix string, opts Options) []*Item {
	if n == nil || opts.Limit <= 0 {
		return nil
	}
	var seen map[uint64]struct{}
	if opts.Unique {
		seen = make(map[uint64]struct{}, opts.Limit)
	}
	if !n.branch {
		return n.scanLeaf(prefix, opts, seen)
	}
	return n.bestFirst(prefix, opts, seen)
}

// scanLeaf serves an entry leaf directly. The leaf may have been reached
// before the whole prefix was consumed, so every item is checked against
// the prefix literally.
func (n *Node) scanLeaf(prefix string, opts Options, seen map[uint64]struct{}) []*Item {
	n.Sort()
	var out []*Item
	for _, it := range n.items {
		if !strings.HasPrefix(it.Key, prefix) {
			continue
		}
		if !admit(it, seen) {
			continue
		}
		out = append(out, it)
		if len(out) == opts.Limit {
			break
		}
	}
	return out
}

// bestFirst expands the subtree through the frontier one level per pop,
// highest score first. Unexpanded subtrees are represented by their node
// alone, so the amount of tree visited is bounded by the work needed for
// opts.Limit ranked results rather than by the subtree size.
func (n *Node) bestFirst(prefix string, opts Options, seen map[uint64]struct{}) []*Item {
	f := frontier.New(0)
	f.Add(n)
	var out []*Item
	for {
		e, ok := f.Pop()
		if !ok {
			return out
		}
		switch v := e.(type) {
		case *Node:
			v.Sort()
			f.AddBatch(v.expand())
		case *Item:
			if !strings.HasPrefix(v.Key, prefix) {
				continue
			}
			if !admit(v, seen) {
				continue
			}
			out = append(out, v)
			if len(out) == opts.Limit {
				return out
			}
		}
	}
}

// expand lists the node's immediate frontier entries in ranked order:
// children for a branch, plus any keys that end at this node.
func (n *Node) expand() []frontier.Entry {
	entries := make([]frontier.Entry, 0, len(n.order)+len(n.items))
	for _, c := range n.order {
		entries = append(entries, n.children[c])
	}
	for _, it := range n.items {
		entries = append(entries, it)
	}
	return entries
}

// admit applies the uniqueness filter, recording identities as it goes.
// An item is a duplicate when either its key or its distinct identity has
// already been returned, so two entries for the same key collapse even
// when tagged with different distinct values. A nil seen set admits
// everything.
func admit(it *Item, seen map[uint64]struct{}) bool {
	if seen == nil {
		return true
	}
	kh := xxhash.Sum64String(it.Key)
	ih := xxhash.Sum64String(it.Identity())
	if _, dup := seen[kh]; dup {
		return false
	}
	if _, dup := seen[ih]; dup {
		return false
	}
	seen[kh] = struct{}{}
	seen[ih] = struct{}{}
	return true
}
