package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the on-disk configuration shared by the commands
type Config struct {
	Store     Store     `yaml:"store"`
	Stoplists Stoplists `yaml:"stoplists"`
	Lexicon   string    `yaml:"lexicon"`
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
}

// Store selects and configures the result store
type Store struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
	DBPath  string `yaml:"db_path"`
}

// Stoplists points at stopword files. An empty path keeps the built-in list.
type Stoplists struct {
	English string   `yaml:"english"`
	Korean  string   `yaml:"korean"`
	Extra   []string `yaml:"extra"`
}

// Log configures the process logger
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Server configures the HTTP service
type Server struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	MaxItems  int    `yaml:"max_items"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Store: Store{
			Backend: BackendFile,
			Dir:     "tweets",
			Prefix:  "tweets",
			DBPath:  "tweets/results.db",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			Addr:      ":8080",
			StaticDir: "static",
			MaxItems:  500,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and required fields
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Store.Dir) == "" {
			return fmt.Errorf("%w: store.dir is required for the file backend", internalerr.ErrInvalidConfig)
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Store.DBPath) == "" {
			return fmt.Errorf("%w: store.db_path is required for the sqlite backend", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", internalerr.ErrInvalidConfig, c.Store.Backend)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}

	if c.Server.MaxItems < 0 {
		return fmt.Errorf("%w: server.max_items must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}
