package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("MaxLimit = %d, want 64", cfg.Server.MaxLimit)
	}
	if cfg.Index.FanoutThreshold != 16 {
		t.Errorf("FanoutThreshold = %d, want 16", cfg.Index.FanoutThreshold)
	}
	if !cfg.Server.EnableFilter {
		t.Error("EnableFilter = false, want true by default")
	}
	if cfg.Server.DefaultUnique {
		t.Error("DefaultUnique = true, want false by default")
	}
}

func TestInitCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Init(path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("MaxLimit = %d, want default 64", cfg.Server.MaxLimit)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.MaxLimit = 32
	cfg.Index.FanoutThreshold = 4
	cfg.Corpus.Dir = "corpus/"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.MaxLimit != 32 {
		t.Errorf("MaxLimit = %d, want 32", loaded.Server.MaxLimit)
	}
	if loaded.Index.FanoutThreshold != 4 {
		t.Errorf("FanoutThreshold = %d, want 4", loaded.Index.FanoutThreshold)
	}
	if loaded.Corpus.Dir != "corpus/" {
		t.Errorf("Corpus.Dir = %s, want corpus/", loaded.Corpus.Dir)
	}
}

func TestPartialParseSalvagesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// The [index] table carries a type error; [server] is valid and must
	// survive the recovery pass.
	broken := "[server]\nmax_limit = 12\n\n[index]\nfanout_threshold = \"not a number\"\n"
	if err := os.WriteFile(path, []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.MaxLimit != 12 {
		t.Errorf("MaxLimit = %d, want salvaged 12", cfg.Server.MaxLimit)
	}
	if cfg.Index.FanoutThreshold != 16 {
		t.Errorf("FanoutThreshold = %d, want default 16", cfg.Index.FanoutThreshold)
	}
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Init(path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	newLimit := 16
	if err := cfg.Update(path, &newLimit, nil, nil, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Server.MaxLimit != 16 {
		t.Errorf("MaxLimit after update = %d, want 16", reloaded.Server.MaxLimit)
	}
	// Untouched fields keep their values.
	if reloaded.Server.MaxPrefix != 60 {
		t.Errorf("MaxPrefix = %d, want 60", reloaded.Server.MaxPrefix)
	}
}
