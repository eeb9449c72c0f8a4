/*
Package config manages the TOML configuration for rankserve services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"rankserve.io/rankserve/internal/utils"
)

// Config holds the entire config structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
	Corpus CorpusConfig `toml:"corpus"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit      int  `toml:"max_limit"`
	MinPrefix     int  `toml:"min_prefix"`
	MaxPrefix     int  `toml:"max_prefix"`
	EnableFilter  bool `toml:"enable_filter"`
	DefaultUnique bool `toml:"default_unique"`
}

// IndexConfig holds tree construction options.
type IndexConfig struct {
	FanoutThreshold int `toml:"fanout_threshold"`
}

// CorpusConfig holds corpus loading options.
type CorpusConfig struct {
	Dir        string `toml:"dir"`
	MaxEntries int    `toml:"max_entries"`
	ChunkSize  int    `toml:"chunk_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:      64,
			MinPrefix:     1,
			MaxPrefix:     60,
			EnableFilter:  true,
			DefaultUnique: false,
		},
		Index: IndexConfig{
			FanoutThreshold: 16,
		},
		Corpus: CorpusConfig{
			Dir:        "data/",
			MaxEntries: 50000,
			ChunkSize:  10000,
		},
		CLI: CliConfig{
			DefaultLimit:    24,
			DefaultMinLen:   1,
			DefaultMaxLen:   24,
			DefaultNoFilter: false,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/rankserve
// 2. ~/Library/Application Support/rankserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "rankserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "rankserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path under the user config dir
// 3. Builtin defaults
// It returns the config and the path it was loaded from ("" for builtins).
func LoadWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		if _, statErr := os.Stat(customPath); statErr == nil {
			cfg, err := Load(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return cfg, customPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using builtin defaults...", err)
		return DefaultConfig(), "", nil
	}

	cfg, err := Init(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath, nil
}

// Init loads config from a file, creating it with defaults when missing.
func Init(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using builtin defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := Save(cfg, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using builtin defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg, nil
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using builtin defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Load decodes a TOML config file, falling back to section-by-section
// recovery when the file does not parse as a whole.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		return tryPartialParse(configPath)
	}
	return cfg, nil
}

// Save writes the config into a TOML file.
func Save(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}

// tryPartialParse salvages whatever valid sections a broken config file
// still holds, leaving defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	loose, err := utils.ParseTOMLLoose(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg, nil
	}

	if section, ok := utils.Section(loose, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.Section(loose, "index"); ok {
		if val, ok := utils.SectionInt(section, "fanout_threshold"); ok {
			cfg.Index.FanoutThreshold = val
		}
	}
	if section, ok := utils.Section(loose, "corpus"); ok {
		extractCorpusConfig(section, &cfg.Corpus)
	}
	if section, ok := utils.Section(loose, "cli"); ok {
		extractCliConfig(section, &cfg.CLI)
	}
	return cfg, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.SectionInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.SectionInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.SectionInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.SectionBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
	if val, ok := utils.SectionBool(data, "default_unique"); ok {
		server.DefaultUnique = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.SectionString(data, "dir"); ok {
		corpus.Dir = val
	}
	if val, ok := utils.SectionInt(data, "max_entries"); ok {
		corpus.MaxEntries = val
	}
	if val, ok := utils.SectionInt(data, "chunk_size"); ok {
		corpus.ChunkSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.SectionInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.SectionInt(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.SectionInt(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.SectionBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// Update changes server limits and persists the config.
func (c *Config) Update(configPath string, maxLimit, minPrefix, maxPrefix *int, enableFilter *bool) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if minPrefix != nil {
		server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if enableFilter != nil {
		server.EnableFilter = *enableFilter
	}
	return Save(c, configPath)
}
