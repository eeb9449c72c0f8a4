/*
Package corpus loads chunked corpus files into a suggest index.

Corpus files are tab-separated text named corpus_0001.tsv, corpus_0002.tsv
and so on, one entry per line:

	key<TAB>score<TAB>value[<TAB>distinct]

Chunks are discovered by glob, ordered by ID, and loaded by a background
goroutine so the index starts answering queries before the whole corpus is
in. Failed chunks are retried with backoff a bounded number of times.
*/
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"rankserve.io/rankserve/pkg/suggest"
)

// ErrNoChunks is returned by Start when the corpus dir holds no chunk files.
var ErrNoChunks = errors.New("corpus: no chunk files found")

// ChunkInfo contains metadata about one chunk file.
type ChunkInfo struct {
	ChunkID    int
	Filename   string
	EntryCount int
}

// Stats is a snapshot of the loading progress.
type Stats struct {
	LoadedEntries   int
	LoadedChunks    int
	AvailableChunks int
	IsLoading       bool
}

// Loader feeds chunked corpus files into an index.
type Loader struct {
	dirPath    string
	maxEntries int
	index      *suggest.Index

	mu            sync.Mutex
	loadedChunks  map[int]bool
	loadedEntries int
	errorCount    map[int]int
	loading       bool

	loadingCh  chan int
	done       chan struct{}
	maxRetries int
}

// NewLoader creates a loader for the given directory. maxEntries of 0
// means load everything available.
func NewLoader(dirPath string, maxEntries int, index *suggest.Index) *Loader {
	return &Loader{
		dirPath:      dirPath,
		maxEntries:   maxEntries,
		index:        index,
		loadedChunks: make(map[int]bool),
		errorCount:   make(map[int]int),
		loadingCh:    make(chan int, 10),
		done:         make(chan struct{}),
		maxRetries:   3,
	}
}

// AvailableChunks scans the directory for chunk files, ordered by ID.
func (l *Loader) AvailableChunks() ([]ChunkInfo, error) {
	pattern := filepath.Join(l.dirPath, "corpus_*.tsv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("corpus: scanning for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		basename := filepath.Base(file)
		idStr := strings.TrimSuffix(strings.TrimPrefix(basename, "corpus_"), ".tsv")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		count, err := countLines(file)
		if err != nil {
			log.Warnf("Failed to count entries in chunk %s: %v", file, err)
			count = 0
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file, EntryCount: count})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// Start discovers chunks, queues as many as the entry cap allows, and
// spawns the background loader goroutine.
func (l *Loader) Start() error {
	chunks, err := l.AvailableChunks()
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w in %s", ErrNoChunks, l.dirPath)
	}
	log.Debugf("Found %d corpus chunk files", len(chunks))

	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	go l.backgroundLoader()

	budget := l.maxEntries
	if budget == 0 {
		for _, chunk := range chunks {
			budget += chunk.EntryCount
		}
	}

	queued := 0
	for _, chunk := range chunks {
		if queued >= budget {
			break
		}
		select {
		case l.loadingCh <- chunk.ChunkID:
			log.Debugf("Queued chunk %d for loading", chunk.ChunkID)
		case <-time.After(100 * time.Millisecond):
			log.Warnf("Loading queue full, chunk %d will be loaded later", chunk.ChunkID)
		}
		queued += chunk.EntryCount
	}
	return nil
}

// backgroundLoader drains the chunk queue until Stop is called.
func (l *Loader) backgroundLoader() {
	for {
		select {
		case chunkID := <-l.loadingCh:
			if err := l.loadChunk(chunkID); err != nil {
				log.Errorf("Failed to load chunk %d: %v", chunkID, err)
				l.retryChunk(chunkID)
			}
		case <-l.done:
			l.mu.Lock()
			l.loading = false
			l.mu.Unlock()
			return
		}
	}
}

// retryChunk requeues a failed chunk after a backoff, up to maxRetries.
func (l *Loader) retryChunk(chunkID int) {
	l.mu.Lock()
	l.errorCount[chunkID]++
	attempts := l.errorCount[chunkID]
	l.mu.Unlock()

	if attempts >= l.maxRetries {
		log.Errorf("Giving up on chunk %d after %d attempts", chunkID, attempts)
		return
	}
	log.Debugf("Retrying chunk %d (attempt %d/%d)", chunkID, attempts+1, l.maxRetries)
	go func() {
		time.Sleep(time.Duration(attempts) * time.Second)
		select {
		case l.loadingCh <- chunkID:
		case <-l.done:
		}
	}()
}

// loadChunk reads one chunk file into the index. Malformed lines are
// logged and skipped; they do not fail the chunk.
func (l *Loader) loadChunk(chunkID int) error {
	l.mu.Lock()
	if l.loadedChunks[chunkID] {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	filename := filepath.Join(l.dirPath, fmt.Sprintf("corpus_%04d.tsv", chunkID))
	added, err := LoadFile(l.index, filename)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.loadedChunks[chunkID] = true
	l.loadedEntries += added
	l.mu.Unlock()

	log.Debugf("Loaded chunk %d: %d entries", chunkID, added)
	return nil
}

// RequestMore raises the entry cap and queues any not-yet-loaded chunks.
func (l *Loader) RequestMore(additional int) error {
	if additional <= 0 {
		return nil
	}
	l.mu.Lock()
	l.maxEntries += additional
	l.mu.Unlock()

	chunks, err := l.AvailableChunks()
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		l.mu.Lock()
		loaded := l.loadedChunks[chunk.ChunkID]
		l.mu.Unlock()
		if loaded {
			continue
		}
		select {
		case l.loadingCh <- chunk.ChunkID:
		case <-time.After(100 * time.Millisecond):
			log.Warnf("Loading queue full, chunk %d deferred", chunk.ChunkID)
		}
	}
	return nil
}

// Stop shuts the background loader down.
func (l *Loader) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

// GetStats returns a snapshot of the loading progress.
func (l *Loader) GetStats() Stats {
	chunks, _ := l.AvailableChunks()

	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		LoadedEntries:   l.loadedEntries,
		LoadedChunks:    len(l.loadedChunks),
		AvailableChunks: len(chunks),
		IsLoading:       l.loading,
	}
}

// LoadFile reads one corpus file into the index and returns the number of
// entries added.
func LoadFile(index *suggest.Index, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("corpus: opening %s: %w", path, err)
	}
	defer file.Close()

	added := 0
	lineNo := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		key, score, value, distinct, err := parseLine(line)
		if err != nil {
			log.Warnf("Skipping %s:%d: %v", path, lineNo, err)
			continue
		}
		if err := index.AddDistinct(key, score, value, distinct); err != nil {
			log.Warnf("Skipping %s:%d: %v", path, lineNo, err)
			continue
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("corpus: reading %s: %w", path, err)
	}
	return added, nil
}

// parseLine splits one corpus line into its fields. The distinct column
// is optional.
func parseLine(line string) (key string, score int, value string, distinct string, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return "", 0, "", "", fmt.Errorf("want at least 3 tab-separated fields, got %d", len(fields))
	}
	key = fields[0]
	score, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, "", "", fmt.Errorf("bad score %q: %w", fields[1], err)
	}
	value = fields[2]
	if len(fields) > 3 {
		distinct = fields[3]
	}
	return key, score, value, distinct, nil
}

func countLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if scanner.Text() != "" {
			count++
		}
	}
	return count, scanner.Err()
}
