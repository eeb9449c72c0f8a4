/*
Package frontier provides the priority queue that drives best-first
traversal over the scored tree.

The frontier is generic over anything carrying a priority, so the
traversal code stays independent of what it is expanding: tree nodes
contribute their cached subtree maximum, items contribute their own
score, and the frontier only ever sees the Entry interface.
*/
package frontier

// Entry is anything ranked by a priority. Higher pops first.
type Entry interface {
	Priority() int
}

// Keyer is implemented by entries carrying a stable identity. A unique
// frontier drops repeat pushes of the same identity; entries without a
// Keyer are always admitted.
type Keyer interface {
	FrontierKey() uint64
}

// Frontier is a max-heap of entries. The heap operations are hand-rolled
// rather than going through container/heap so batch pushes from a level
// expansion skip the per-element interface boxing.
type Frontier struct {
	entries []Entry
	bound   int
	seen    map[uint64]struct{}
}

// New returns a frontier. A positive bound caps the heap size: once full,
// an incoming entry ranking below the current minimum is dropped, and
// otherwise evicts it. bound <= 0 means unbounded.
func New(bound int) *Frontier {
	f := &Frontier{bound: bound}
	if bound > 0 {
		f.entries = make([]Entry, 0, bound)
	}
	return f
}

// NewUnique returns a frontier that additionally deduplicates pushes by
// FrontierKey.
func NewUnique(bound int) *Frontier {
	f := New(bound)
	f.seen = make(map[uint64]struct{})
	return f
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int { return len(f.entries) }

// Add pushes one entry, honoring the uniqueness and bound modes.
func (f *Frontier) Add(e Entry) {
	if f.seen != nil {
		if k, ok := e.(Keyer); ok {
			key := k.FrontierKey()
			if _, dup := f.seen[key]; dup {
				return
			}
			f.seen[key] = struct{}{}
		}
	}
	if f.bound > 0 && len(f.entries) == f.bound {
		// In a max-heap the minimum sits in a leaf; replace it if the
		// newcomer outranks it.
		i := f.minLeaf()
		if f.entries[i].Priority() >= e.Priority() {
			return
		}
		f.entries[i] = e
		f.up(i)
		return
	}
	f.entries = append(f.entries, e)
	f.up(len(f.entries) - 1)
}

// AddBatch pushes a whole expansion level at once.
func (f *Frontier) AddBatch(batch []Entry) {
	for _, e := range batch {
		f.Add(e)
	}
}

// Pop removes and returns the highest-priority entry. The second return
// is false once the frontier is exhausted.
func (f *Frontier) Pop() (Entry, bool) {
	if len(f.entries) == 0 {
		return nil, false
	}
	top := f.entries[0]
	last := len(f.entries) - 1
	f.entries[0] = f.entries[last]
	f.entries[last] = nil
	f.entries = f.entries[:last]
	if len(f.entries) > 0 {
		f.down(0)
	}
	return top, true
}

func (f *Frontier) minLeaf() int {
	n := len(f.entries)
	min := n / 2
	for i := min + 1; i < n; i++ {
		if f.entries[i].Priority() < f.entries[min].Priority() {
			min = i
		}
	}
	return min
}

func (f *Frontier) less(i, j int) bool {
	return f.entries[i].Priority() > f.entries[j].Priority()
}

func (f *Frontier) swap(i, j int) {
	f.entries[i], f.entries[j] = f.entries[j], f.entries[i]
}

// up bubbles element j toward the root until the heap invariant holds.
func (f *Frontier) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !f.less(j, i) {
			break
		}
		f.swap(i, j)
		j = i
	}
}

// down sinks element i toward the leaves until the heap invariant holds.
func (f *Frontier) down(i int) {
	n := len(f.entries)
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && f.less(j2, j1) {
			j = j2
		}
		if !f.less(j, i) {
			break
		}
		f.swap(i, j)
		i = j
	}
}
