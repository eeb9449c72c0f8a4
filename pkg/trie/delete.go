package trie

// remove deletes at most one item matching (key, distinct) from the
// subtree rooted at n. It reports whether an item was removed, and whether
// this node is now empty of both bucket and children so the parent can
// unlink it.
func (n *Node) remove(key, distinct string, depth int) (removed, empty bool) {
	if !n.branch || depth == len(key) {
		removed = n.removeLocal(key, distinct)
		if removed {
			n.recompute()
		}
		return removed, n.isEmpty()
	}
	child, ok := n.children[key[depth]]
	if !ok {
		return false, false
	}
	removed, childEmpty := child.remove(key, distinct, depth+1)
	if childEmpty {
		n.unlink(key[depth])
	}
	if removed {
		n.recompute()
	}
	return removed, n.isEmpty()
}

// removeLocal removes the first bucket item matching both key and
// distinct. Further duplicates stay in place.
func (n *Node) removeLocal(key, distinct string) bool {
	for i, it := range n.items {
		if it.Key == key && it.Distinct == distinct {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// unlink drops a child from the map and the order list as one unit.
func (n *Node) unlink(c byte) {
	delete(n.children, c)
	for i, b := range n.order {
		if b == c {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// recompute refreshes the cached subtree maximum from the remaining bucket
// and children, and invalidates the ranked order.
func (n *Node) recompute() {
	top := 0
	for _, it := range n.items {
		if it.Score > top {
			top = it.Score
		}
	}
	for _, child := range n.children {
		if child.score > top {
			top = child.score
		}
	}
	n.score = top
	n.sorted = false
}

func (n *Node) isEmpty() bool {
	return len(n.items) == 0 && len(n.children) == 0
}
