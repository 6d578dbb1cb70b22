package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP API and on-disk data.
type ServerConfig struct {
	ApiAddr             string `json:"api_addr"`
	LogLevel            string `json:"log_level"`
	DataDir             string `json:"data_dir"`
	HistoryDatabasePath string `json:"history_database_path"`
	MaxCorpusBytes      int64  `json:"max_corpus_bytes"`
	ShutdownTimeoutSec  int    `json:"shutdown_timeout_sec"`
}

// GeneratorConfig holds the policy the application applies around the chain:
// which corpus to load, how many words to ask for and whether to log results.
type GeneratorConfig struct {
	CorpusPath    string `json:"corpus_path"`
	MinWords      int    `json:"min_words"`
	MaxWords      int    `json:"max_words"`
	RandomSeed    uint64 `json:"random_seed"` // 0 means a fresh seed every start
	RecordHistory bool   `json:"record_history"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server    *ServerConfig    `json:"server_config"`
	Generator *GeneratorConfig `json:"generator_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ApiAddr:             ":7280",
		LogLevel:            "info",
		DataDir:             "./data",
		HistoryDatabasePath: "./data/markovmania_history.db",
		MaxCorpusBytes:      8 << 20,
		ShutdownTimeoutSec:  10,
	}
}

// DefaultGeneratorConfig creates a generator configuration with default values.
// Word limits of 1 to 14 match what the desktop version of the tool used.
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		CorpusPath:    "",
		MinWords:      1,
		MaxWords:      14,
		RandomSeed:    0,
		RecordHistory: true,
	}
}

// DefaultConfig returns a Config with every section set to its defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Generator: DefaultGeneratorConfig(),
	}
}

// Validate reports the first invalid setting, if any.
func (c *Config) Validate() error {
	if c.Server == nil || c.Generator == nil {
		return errors.New("server_config and generator_config are required")
	}
	if c.Generator.MinWords < 0 {
		return fmt.Errorf("min_words must not be negative, got %d", c.Generator.MinWords)
	}
	if c.Generator.MaxWords < c.Generator.MinWords {
		return fmt.Errorf("max_words (%d) must not be less than min_words (%d)", c.Generator.MaxWords, c.Generator.MinWords)
	}
	if c.Server.MaxCorpusBytes < 0 {
		return fmt.Errorf("max_corpus_bytes must not be negative, got %d", c.Server.MaxCorpusBytes)
	}
	return nil
}

// clone returns a deep copy so callers cannot modify shared sections.
func (c *Config) clone() Config {
	out := Config{}
	if c.Server != nil {
		s := *c.Server
		out.Server = &s
	}
	if c.Generator != nil {
		g := *c.Generator
		out.Generator = &g
	}
	return out
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	// Initialize with default configurations
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as we can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	// A file that omits a section keeps the defaults for it.
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Generator == nil {
		config.Generator = DefaultGeneratorConfig()
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// ensureDataDir creates the data directory and the parent directory of the
// history database if they don't exist yet.
func ensureDataDir(cfg *ServerConfig) error {
	dirs := []string{cfg.DataDir}
	if dbPath := cfg.HistoryDatabasePath; dbPath != "" && dbPath != ":memory:" {
		// Strip any DSN query parameters before looking at the path.
		dbPath, _, _ = strings.Cut(dbPath, "?")
		dirs = append(dirs, filepath.Dir(strings.TrimPrefix(dbPath, "file:")))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %q: %w", dir, err)
		}
	}
	return nil
}

// ConfigManager handles thread-safe access to the configuration.
type ConfigManager struct {
	config     *Config
	mu         sync.RWMutex
	configPath string
	logger     *slog.Logger
}

// NewConfigManager loads the config and initializes the manager.
func NewConfigManager(path string) (*ConfigManager, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return &ConfigManager{
		config:     cfg,
		configPath: path,
		// Log to stderr before the application-specific logger is set.
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})),
	}, nil
}

// SetLogger sets the logger.
func (cm *ConfigManager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		cm.logger = logger
	}
}

// Get returns a deep copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.clone()
}

// Update validates the new configuration, saves it to disk and makes it current.
// Most settings only take effect after a restart.
func (cm *ConfigManager) Update(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := json.MarshalIndent(newConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(cm.configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	updated := newConfig.clone()
	cm.config = &updated
	cm.logger.Info("Configuration updated", slog.String("path", cm.configPath))
	return nil
}
