package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Store != def.Store || cfg.Log != def.Log || cfg.Server != def.Server {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
	if cfg.Store.Backend != BackendFile || cfg.Store.Prefix != "tweets" {
		t.Errorf("unexpected defaults: %+v", cfg.Store)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "tweetcloud.yaml", `store:
  backend: sqlite
  db_path: /var/lib/tweetcloud/results.db
stoplists:
  extra: [rt, via]
log:
  level: debug
  format: json
server:
  max_items: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Store.DBPath != "/var/lib/tweetcloud/results.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	// untouched keys keep their defaults
	if cfg.Store.Dir != "tweets" || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: %+v %+v", cfg.Store, cfg.Server)
	}
	if len(cfg.Stoplists.Extra) != 2 || cfg.Log.Format != "json" || cfg.Server.MaxItems != 50 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/tweetcloud.yaml"); err == nil {
		t.Error("Should error on missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "store: [oops\n")
	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, false},
		{"file without dir", func(c *Config) { c.Store.Dir = " " }, false},
		{"sqlite without path", func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.DBPath = "" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"upper-case level", func(c *Config) { c.Log.Level = "WARN" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"negative max items", func(c *Config) { c.Server.MaxItems = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
