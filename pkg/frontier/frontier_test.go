package frontier

import "testing"

type entry struct {
	score int
	key   uint64
}

func (e entry) Priority() int       { return e.score }
func (e entry) FrontierKey() uint64 { return e.key }

type plain int

func (p plain) Priority() int { return int(p) }

func popAll(t *testing.T, f *Frontier) []int {
	t.Helper()
	var out []int
	for {
		e, ok := f.Pop()
		if !ok {
			return out
		}
		out = append(out, e.Priority())
	}
}

func TestPopOrder(t *testing.T) {
	f := New(0)
	f.AddBatch([]Entry{plain(3), plain(9), plain(1), plain(7), plain(5)})

	got := popAll(t, f)
	want := []int{9, 7, 5, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("popped %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pop[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPopEmpty(t *testing.T) {
	f := New(0)
	if e, ok := f.Pop(); ok {
		t.Errorf("Pop on empty = %v, want none", e)
	}
	f.Add(plain(1))
	f.Pop()
	if _, ok := f.Pop(); ok {
		t.Error("Pop after drain succeeded, want none")
	}
}

func TestBoundDropsLowest(t *testing.T) {
	f := New(3)
	f.AddBatch([]Entry{plain(5), plain(1), plain(9)})

	// Below the current minimum: dropped.
	f.Add(plain(0))
	if f.Len() != 3 {
		t.Fatalf("Len = %d after dropped push, want 3", f.Len())
	}

	// Above the current minimum: evicts it.
	f.Add(plain(7))
	got := popAll(t, f)
	want := []int{9, 7, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pop[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestUniqueDropsRepeatKeys(t *testing.T) {
	f := NewUnique(0)
	f.Add(entry{score: 5, key: 42})
	f.Add(entry{score: 9, key: 42})
	f.Add(entry{score: 3, key: 7})

	if f.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after duplicate push", f.Len())
	}
	got := popAll(t, f)
	want := []int{5, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pop[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestUniqueAdmitsKeylessEntries(t *testing.T) {
	f := NewUnique(0)
	f.Add(plain(4))
	f.Add(plain(4))
	if f.Len() != 2 {
		t.Errorf("Len = %d, want 2: entries without keys are always admitted", f.Len())
	}
}
