/*
Package main implements the rankserve completion server and CLI.

rankserve answers top-K prefix-autocomplete queries over an in-memory
index of scored entries. Build cost is amortized across many cheap
queries: the tree splits its buckets adaptively as entries come in, sorts
lazily on first read, and ranked retrieval expands the tree best-first so
it never materializes more of a subtree than the requested K results need.

It can operate as a msgpack IPC server for integration with editors and
other host processes, or as an interactive CLI for testing and debugging.

# Usage

Start the server with default settings:

	rankserve

Use a custom corpus directory and enable debug logging:

	rankserve -data /path/to/corpus -d

Run in CLI mode for interactive testing:

	rankserve -c -limit 10 -prmin 2

The corpus directory holds chunked TSV files named corpus_0001.tsv,
corpus_0002.tsv, etc., one "key<TAB>score<TAB>value[<TAB>distinct]" entry
per line. Chunks are loaded lazily in the background up to the configured
entry cap.

# Configuration

Runtime configuration lives in a TOML file that is created with defaults
on first run:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[index]
	fanout_threshold = 16

	[corpus]
	dir = "data/"
	max_entries = 50000

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Completion
requests are processed synchronously with microsecond timing included in
responses:

	{"id": "req1", "op": "complete", "p": "hel", "l": 20}
	{"id": "req1", "s": [{"k": "hello", "v": "hello", "sc": 930, "r": 1}], "c": 1, "t": 145}

Add, delete, stats and config ops travel over the same stream; see
pkg/server for the full message set.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"rankserve.io/rankserve/internal/cli"
	"rankserve.io/rankserve/internal/logger"
	"rankserve.io/rankserve/pkg/config"
	"rankserve.io/rankserve/pkg/corpus"
	"rankserve.io/rankserve/pkg/server"
	"rankserve.io/rankserve/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "rankserve"
)

// sigHandler exits cleanly on SIGINT/SIGTERM.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, corpus loading and the selected mode together; the
// actual logic lives in the packages it calls.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing corpus chunk files (overrides config)")
	configPathFlag := flag.String("config", "", "Path to a config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run interactive CLI instead of the IPC server")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaults.CLI.DefaultMinLen, "Minimum prefix length for suggestions")
	maxPrefix := flag.Int("prmax", defaults.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	unique := flag.Bool("unique", defaults.Server.DefaultUnique, "De-duplicate results by identity")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	maxEntries := flag.Int("entries", defaults.Corpus.MaxEntries, "Maximum number of corpus entries to load (0 for all)")
	threshold := flag.Int("threshold", defaults.Index.FanoutThreshold, "Leaf bucket size before a node splits per character")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	appConfig, configPath, err := config.LoadWithPriority(*configPathFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *threshold != defaults.Index.FanoutThreshold {
		appConfig.Index.FanoutThreshold = *threshold
	}
	if *maxEntries != defaults.Corpus.MaxEntries {
		appConfig.Corpus.MaxEntries = *maxEntries
	}
	corpusDir := appConfig.Corpus.Dir
	if *dataDir != "" {
		corpusDir = *dataDir
	}

	index := suggest.NewIndex(appConfig.Index.FanoutThreshold)

	var loader *corpus.Loader
	if corpusDir != "" {
		loader = corpus.NewLoader(corpusDir, appConfig.Corpus.MaxEntries, index)
		if err := loader.Start(); err != nil {
			log.Warnf("Corpus loading unavailable: %v. Starting with an empty index...", err)
			loader = nil
		} else {
			defer loader.Stop()
			log.Debugf("Corpus loader started on %s", corpusDir)
		}
	} else {
		log.Warn("No corpus dir configured, starting with an empty index...")
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(index, *minPrefix, *maxPrefix, *limit, *unique, *noFilter)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	showStartupInfo(corpusDir)
	srv := server.NewServer(index, loader, appConfig, configPath)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// showStartupInfo prints basic init info regardless of the active level.
func showStartupInfo(corpusDir string) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)
	l.Infof("version: %s", Version)
	l.Infof("pid: [ %d ]", os.Getpid())
	if corpusDir != "" {
		l.Infof("corpus dir: ( %s )", corpusDir)
	}
	l.Info("status: ready")
}

// printVersion renders the version banner.
func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("[ rankserve ] top-K prefix completions")
	l.Print("", "version", Version)
	l.Print("use -h or --help to see available options")
}
