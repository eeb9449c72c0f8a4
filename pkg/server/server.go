package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"rankserve.io/rankserve/internal/utils"
	"rankserve.io/rankserve/pkg/config"
	"rankserve.io/rankserve/pkg/corpus"
	"rankserve.io/rankserve/pkg/suggest"
)

// Server handles the msgpack IPC for ranked completions.
type Server struct {
	index      *suggest.Index
	loader     *corpus.Loader
	cfg        *config.Config
	configPath string

	dec *msgpack.Decoder
	enc *msgpack.Encoder
}

// NewServer creates a completion server using stdin/stdout for IPC.
// loader may be nil when no corpus directory is configured.
func NewServer(index *suggest.Index, loader *corpus.Loader, cfg *config.Config, configPath string) *Server {
	return newServer(index, loader, cfg, configPath, os.Stdin, os.Stdout)
}

func newServer(index *suggest.Index, loader *corpus.Loader, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	return &Server{
		index:      index,
		loader:     loader,
		cfg:        cfg,
		configPath: configPath,
		dec:        msgpack.NewDecoder(r),
		enc:        msgpack.NewEncoder(w),
	}
}

// Start begins the request loop. It returns nil when the input stream
// closes.
func (s *Server) Start() error {
	log.Debug("Starting IPC server")
	s.send(map[string]string{"status": "ready"})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handle(req)
	}
}

// handle dispatches one request by op.
func (s *Server) handle(req Request) {
	switch req.Op {
	case "complete":
		s.handleComplete(req)
	case "add":
		s.handleAdd(req)
	case "delete":
		s.handleDelete(req)
	case "stats":
		s.handleStats(req)
	case "config":
		s.handleConfig(req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

// handleComplete validates the prefix against the configured limits,
// queries the index and answers with ranked suggestions.
func (s *Server) handleComplete(req Request) {
	prefix := req.Prefix
	srvCfg := s.cfg.Server

	if prefix == "" {
		s.sendError(req.ID, "Missing 'p' parameter", 400)
		return
	}
	if len(prefix) < srvCfg.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("Prefix must be at least %d characters", srvCfg.MinPrefix), 400)
		return
	}
	if len(prefix) > srvCfg.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", srvCfg.MaxPrefix), 400)
		return
	}
	if srvCfg.EnableFilter && !utils.IsValidInput(prefix) {
		s.send(CompletionResponse{ID: req.ID, Suggestions: []Suggestion{}, Count: 0})
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = 10
	}
	if srvCfg.MaxLimit > 0 && limit > srvCfg.MaxLimit {
		limit = srvCfg.MaxLimit
	}

	unique := srvCfg.DefaultUnique
	if req.Unique != nil {
		unique = *req.Unique
	}

	start := time.Now()
	results := s.index.Complete(prefix, limit, unique)
	elapsed := time.Since(start)

	suggestions := make([]Suggestion, len(results))
	for i, r := range results {
		value := ""
		if v, ok := r.Value.(string); ok {
			value = v
		}
		suggestions[i] = Suggestion{
			Key:   r.Key,
			Value: value,
			Score: r.Score,
			Rank:  uint16(i + 1),
		}
	}

	s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAdd(req Request) {
	if req.Key == "" {
		s.sendError(req.ID, "Missing 'k' parameter", 400)
		return
	}
	value := req.Value
	if value == "" {
		value = req.Key
	}
	if err := s.index.AddDistinct(req.Key, req.Score, value, req.Distinct); err != nil {
		s.sendError(req.ID, err.Error(), 400)
		return
	}
	s.send(StatusResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) handleDelete(req Request) {
	if req.Key == "" {
		s.sendError(req.ID, "Missing 'k' parameter", 400)
		return
	}
	removed := s.index.Delete(req.Key, req.Distinct)
	s.send(StatusResponse{ID: req.ID, Status: "ok", Removed: &removed})
}

func (s *Server) handleStats(req Request) {
	stats := s.index.Stats()
	if s.loader != nil {
		ls := s.loader.GetStats()
		stats["loadedChunks"] = ls.LoadedChunks
		stats["availableChunks"] = ls.AvailableChunks
		stats["loadedEntries"] = ls.LoadedEntries
	}
	s.send(StatsResponse{ID: req.ID, Stats: stats})
}

// handleConfig reads or updates the server limits. Updates persist to the
// active config file when one is in use.
func (s *Server) handleConfig(req Request) {
	switch req.Action {
	case "", "get":
		srvCfg := s.cfg.Server
		s.send(ConfigResponse{
			ID:           req.ID,
			Status:       "ok",
			MaxLimit:     srvCfg.MaxLimit,
			MinPrefix:    srvCfg.MinPrefix,
			MaxPrefix:    srvCfg.MaxPrefix,
			EnableFilter: srvCfg.EnableFilter,
		})
	case "update":
		if s.configPath == "" {
			applyServerUpdate(&s.cfg.Server, req)
			s.send(StatusResponse{ID: req.ID, Status: "ok"})
			return
		}
		if err := s.cfg.Update(s.configPath, req.MaxLimit, req.MinPrefix, req.MaxPrefix, req.EnableFilter); err != nil {
			log.Errorf("Persisting config update: %v", err)
			s.sendError(req.ID, "Failed to persist config update", 500)
			return
		}
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown config action: %s", req.Action), 400)
	}
}

func applyServerUpdate(server *config.ServerConfig, req Request) {
	if req.MaxLimit != nil {
		server.MaxLimit = *req.MaxLimit
	}
	if req.MinPrefix != nil {
		server.MinPrefix = *req.MinPrefix
	}
	if req.MaxPrefix != nil {
		server.MaxPrefix = *req.MaxPrefix
	}
	if req.EnableFilter != nil {
		server.EnableFilter = *req.EnableFilter
	}
}

// send encodes one response onto the output stream.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
