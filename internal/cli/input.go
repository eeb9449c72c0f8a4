// Package cli handles interactive input for testing and debugging the
// index without going through the msgpack transport.
package cli

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"rankserve.io/rankserve/internal/utils"
	"rankserve.io/rankserve/pkg/suggest"
)

var keyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#74a8fc"})

// InputHandler reads prefixes from stdin and prints ranked suggestions.
type InputHandler struct {
	index           suggest.ISuggester
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	unique          bool
	noFilter        bool
}

// NewInputHandler sets up the handler with the limits the flags selected.
func NewInputHandler(index suggest.ISuggester, minLength, maxLength, limit int, unique, noFilter bool) *InputHandler {
	return &InputHandler{
		index:           index,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		unique:          unique,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop. It prompts, reads one line from stdin
// and hands the trimmed input to handleInput. The loop ends when stdin
// closes or errors.
func (h *InputHandler) Start() error {
	log.Print("rankserve CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a prefix and press Enter to see suggestions (Ctrl+C to exit):")

	for {
		log.Print("> ")
		prefix, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		h.handleInput(prefix)
	}
}

// handleInput validates one prefix, queries the index and prints the
// ranked results.
func (h *InputHandler) handleInput(prefix string) {
	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}
	if !h.noFilter && !utils.IsValidInput(prefix) {
		log.Infof("No results found for prefix: '%s'", prefix)
		return
	}

	start := time.Now()
	suggestions := h.index.Complete(prefix, h.suggestLimit, h.unique)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	log.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		log.Printf("%2d. %-40s (score: %8s)", i+1, keyStyle.Render(s.Key), utils.FormatWithCommas(s.Score))
	}
}
