package suggest

import (
	"fmt"
	"sync"
	"testing"

	"rankserve.io/rankserve/pkg/trie"
)

func TestAddAndComplete(t *testing.T) {
	ix := NewIndex(1)
	entries := []struct {
		key   string
		score int
	}{
		{"cat", 5},
		{"car", 9},
		{"cap", 1},
	}
	for _, e := range entries {
		if err := ix.Add(e.key, e.score, e.key+"-value"); err != nil {
			t.Fatalf("Add(%s): %v", e.key, err)
		}
	}

	got := ix.Complete("ca", 2, false)
	if len(got) != 2 {
		t.Fatalf("Complete = %v, want 2 results", got)
	}
	if got[0].Key != "car" || got[0].Score != 9 || got[0].Value != "car-value" {
		t.Errorf("first = %+v, want car/9", got[0])
	}
	if got[1].Key != "cat" {
		t.Errorf("second = %+v, want cat", got[1])
	}
}

func TestCompleteNoMatches(t *testing.T) {
	ix := NewIndex(1)
	if err := ix.Add("cat", 5, "cat"); err != nil {
		t.Fatal(err)
	}
	if got := ix.Complete("dog", 5, false); got != nil {
		t.Errorf("Complete(dog) = %v, want nil", got)
	}
	if got := ix.Complete("cat", 0, false); got != nil {
		t.Errorf("Complete with limit 0 = %v, want nil", got)
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	ix := NewIndex(4)
	if err := ix.Add("", 1, "nope"); err != trie.ErrEmptyKey {
		t.Fatalf("Add(empty) = %v, want ErrEmptyKey", err)
	}
}

func TestUniqueCompletion(t *testing.T) {
	ix := NewIndex(4)
	if err := ix.AddDistinct("ab", 3, "x-value", "x"); err != nil {
		t.Fatal(err)
	}
	if err := ix.AddDistinct("ab", 7, "y-value", "y"); err != nil {
		t.Fatal(err)
	}

	got := ix.Complete("a", 5, true)
	if len(got) != 1 {
		t.Fatalf("unique Complete = %v, want one result", got)
	}
	if got[0].Value != "y-value" {
		t.Errorf("result = %+v, want the higher-scored y-value", got[0])
	}
}

func TestDeleteThroughIndex(t *testing.T) {
	ix := NewIndex(1)
	for _, key := range []string{"go", "gopher", "gold"} {
		if err := ix.Add(key, len(key), key); err != nil {
			t.Fatal(err)
		}
	}

	if !ix.Delete("gopher", "") {
		t.Fatal("Delete(gopher) = false, want true")
	}
	if ix.Delete("gopher", "") {
		t.Error("second Delete(gopher) = true, want false")
	}

	got := ix.Complete("go", 10, false)
	keys := make([]string, len(got))
	for i, s := range got {
		keys[i] = s.Key
	}
	if fmt.Sprint(keys) != fmt.Sprint([]string{"gold", "go"}) {
		t.Errorf("Complete after delete = %v, want [gold go]", keys)
	}
}

func TestStats(t *testing.T) {
	ix := NewIndex(8)
	ix.Add("alpha", 10, "alpha")
	ix.Add("beta", 40, "beta")

	stats := ix.Stats()
	if stats["totalEntries"] != 2 {
		t.Errorf("totalEntries = %d, want 2", stats["totalEntries"])
	}
	if stats["maxScore"] != 40 {
		t.Errorf("maxScore = %d, want 40", stats["maxScore"])
	}
	if stats["fanoutThreshold"] != 8 {
		t.Errorf("fanoutThreshold = %d, want 8", stats["fanoutThreshold"])
	}
}

// The lock must serialize mixed readers and writers; this mainly gives
// the race detector something to chew on.
func TestConcurrentAccess(t *testing.T) {
	ix := NewIndex(2)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("key%d%d", g, i)
				if err := ix.Add(key, i, key); err != nil {
					t.Errorf("Add(%s): %v", key, err)
					return
				}
				ix.Complete("key", 5, false)
				if i%10 == 0 {
					ix.Delete(key, "")
				}
			}
		}(g)
	}
	wg.Wait()

	if ix.Stats()["totalEntries"] == 0 {
		t.Error("totalEntries = 0 after concurrent inserts")
	}
}
