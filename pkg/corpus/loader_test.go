package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"rankserve.io/rankserve/pkg/suggest"
)

func writeChunk(t *testing.T, dir string, id int, content string) string {
	t.Helper()
	path := filepath.Join(dir, chunkName(id))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing chunk: %v", err)
	}
	return path
}

func chunkName(id int) string {
	return "corpus_" + pad(id) + ".tsv"
}

func pad(id int) string {
	s := "0000" + itoa(id)
	return s[len(s)-4:]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeChunk(t, dir, 1, "cat\t5\tcat-value\ncar\t9\tcar-value\nab\t7\tab-value\ty\n")

	ix := suggest.NewIndex(1)
	added, err := LoadFile(ix, path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if added != 3 {
		t.Fatalf("added = %d, want 3", added)
	}

	got := ix.Complete("ca", 10, false)
	if len(got) != 2 || got[0].Key != "car" || got[0].Value != "car-value" {
		t.Errorf("Complete(ca) = %+v, want car then cat", got)
	}

	// The distinct column must round-trip into deletion matching.
	if !ix.Delete("ab", "y") {
		t.Error("Delete(ab, y) = false, want true")
	}
}

func TestLoadFileSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := writeChunk(t, dir, 1, "good\t5\tgood\nbad-no-tabs\nbad\tNaN\tscore\n\nlast\t2\tlast\n")

	ix := suggest.NewIndex(4)
	added, err := LoadFile(ix, path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2 (malformed lines skipped)", added)
	}
}

func TestAvailableChunksOrdered(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, 3, "c\t1\tc\n")
	writeChunk(t, dir, 1, "a\t1\ta\nalso\t2\talso\n")
	writeChunk(t, dir, 2, "b\t1\tb\n")
	// Non-chunk files are ignored.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	ix := suggest.NewIndex(4)
	l := NewLoader(dir, 0, ix)
	chunks, err := l.AvailableChunks()
	if err != nil {
		t.Fatalf("AvailableChunks: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("found %d chunks, want 3", len(chunks))
	}
	for i, want := range []int{1, 2, 3} {
		if chunks[i].ChunkID != want {
			t.Errorf("chunk[%d].ChunkID = %d, want %d", i, chunks[i].ChunkID, want)
		}
	}
	if chunks[0].EntryCount != 2 {
		t.Errorf("chunk 1 EntryCount = %d, want 2", chunks[0].EntryCount)
	}
}

func TestLoadChunkIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, 1, "cat\t5\tcat\n")

	ix := suggest.NewIndex(4)
	l := NewLoader(dir, 0, ix)
	if err := l.loadChunk(1); err != nil {
		t.Fatalf("loadChunk: %v", err)
	}
	if err := l.loadChunk(1); err != nil {
		t.Fatalf("second loadChunk: %v", err)
	}

	if n := ix.Stats()["totalEntries"]; n != 1 {
		t.Errorf("totalEntries = %d after double load, want 1", n)
	}
	stats := l.GetStats()
	if stats.LoadedChunks != 1 || stats.LoadedEntries != 1 {
		t.Errorf("stats = %+v, want 1 chunk / 1 entry", stats)
	}
}

func TestStartWithEmptyDir(t *testing.T) {
	ix := suggest.NewIndex(4)
	l := NewLoader(t.TempDir(), 0, ix)
	if err := l.Start(); err == nil {
		t.Fatal("Start on empty dir = nil, want ErrNoChunks")
	}
}

func TestLoadChunkMissingFile(t *testing.T) {
	ix := suggest.NewIndex(4)
	l := NewLoader(t.TempDir(), 0, ix)
	if err := l.loadChunk(9); err == nil {
		t.Fatal("loadChunk(9) = nil, want error for missing file")
	}
}
