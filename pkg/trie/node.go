package trie

import "sort"

// Node is the recursive structural unit. A node is either a leaf holding a
// flat item bucket, or a branch holding per-character children. Branches
// never revert to leaves; they get pruned when emptied instead.
//
// On a branch the bucket is still present, but holds only items whose key
// is fully consumed at this depth, i.e. keys that are a strict prefix of
// other keys that already forced a split here.
type Node struct {
	score  int
	sorted bool
	branch bool

	items []*Item

	// children and order are one unit: order mirrors the map keys and is
	// the sort target for ranked traversal. Both are always mutated
	// together so the order list never references a pruned child.
	children map[byte]*Node
	order    []byte
}

func newLeaf() *Node { return &Node{} }

// Priority implements frontier.Entry with the cached subtree maximum.
func (n *Node) Priority() int { return n.score }

// IsLeaf reports whether the node still holds a flat bucket.
func (n *Node) IsLeaf() bool { return !n.branch }

// add inserts an item into the subtree rooted at n. depth is the number of
// key bytes already consumed by the path from the root to n.
func (n *Node) add(it *Item, depth, threshold int) {
	if it.Score > n.score {
		n.score = it.Score
	}
	if !n.branch && depth < len(it.Key) && len(n.items) > threshold {
		n.promote(depth, threshold)
	}
	if n.branch {
		n.dispatch(it, depth, threshold)
	} else {
		n.items = append(n.items, it)
	}
	n.sorted = false
}

// promote converts a leaf into a branch and redistributes the bucket
// through child dispatch at the same depth. Redistribution can cascade
// further promotions deeper down. Items whose key ends exactly here stay
// in this node's own bucket.
func (n *Node) promote(depth, threshold int) {
	bucket := n.items
	n.items = nil
	n.branch = true
	n.children = make(map[byte]*Node)
	for _, it := range bucket {
		n.dispatch(it, depth, threshold)
	}
}

// dispatch routes an item to the child owning its next key byte, creating
// the child on first use and recording its key in the order list.
func (n *Node) dispatch(it *Item, depth, threshold int) {
	if depth >= len(it.Key) {
		n.items = append(n.items, it)
		return
	}
	c := it.Key[depth]
	child, ok := n.children[c]
	if !ok {
		child = newLeaf()
		n.children[c] = child
		n.order = append(n.order, c)
	}
	child.add(it, depth+1, threshold)
}

// Sort brings the node into ranked order: the bucket descending by item
// score, and for branches the order list descending by child subtree
// score. No-op when the node is already clean. Any mutation clears the
// flag, so ranked reads always see a fresh order.
func (n *Node) Sort() {
	if n.sorted {
		return
	}
	sort.SliceStable(n.items, func(i, j int) bool {
		return n.items[i].Score > n.items[j].Score
	})
	if n.branch {
		sort.SliceStable(n.order, func(i, j int) bool {
			return n.children[n.order[i]].score > n.children[n.order[j]].score
		})
	}
	n.sorted = true
}

// resolve walks toward the node owning prefix. A leaf reached before the
// prefix is consumed is the maximal-precision entry point available; its
// bucket may still hold keys that diverge from the full prefix, which is
// why retrieval re-checks keys literally.
func (n *Node) resolve(prefix string, depth int) *Node {
	if !n.branch || depth == len(prefix) {
		return n
	}
	child, ok := n.children[prefix[depth]]
	if !ok {
		return nil
	}
	return child.resolve(prefix, depth+1)
}
