package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	rerrors "github.com/vango-dev/vroute/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Mode != ModePath {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModePath)
	}
	if cfg.Server.Listen != DefaultListen {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, DefaultListen)
	}
	if cfg.MaxHistory != DefaultMaxHistory {
		t.Errorf("MaxHistory = %d, want %d", cfg.MaxHistory, DefaultMaxHistory)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

const jsonConfig = `{
  "base": "/app",
  "mode": "memory",
  "routes": [
    {"name": "users", "pattern": "users", "children": [
      {"name": "user", "pattern": ":id", "end": true}
    ]}
  ],
  "server": {"listen": ":8080", "pingInterval": "5s"},
  "log": {"level": "debug", "format": "json"}
}
`

const tomlConfig = `
base = "/app"
mode = "memory"

[[routes]]
name = "users"
pattern = "users"

  [[routes.children]]
  name = "user"
  pattern = ":id"
  end = true

[server]
listen = ":8080"
ping_interval = "5s"

[log]
level = "debug"
format = "json"
`

const yamlConfig = `
base: /app
mode: memory
routes:
  - name: users
    pattern: users
    children:
      - name: user
        pattern: ":id"
        end: true
server:
  listen: ":8080"
  pingInterval: 5s
log:
  level: debug
  format: json
`

func TestLoadFileFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"vroute.json", jsonConfig},
		{"vroute.toml", tomlConfig},
		{"vroute.yaml", yamlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate error: %v", err)
			}

			if cfg.Base != "/app" || cfg.Mode != ModeMemory {
				t.Errorf("Base, Mode = %q, %q", cfg.Base, cfg.Mode)
			}
			if cfg.Server.Listen != ":8080" {
				t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, ":8080")
			}
			if cfg.PingInterval() != 5*time.Second {
				t.Errorf("PingInterval() = %v, want 5s", cfg.PingInterval())
			}
			// Defaults fill what the file leaves out.
			if cfg.Server.WSPath != DefaultWSPath {
				t.Errorf("Server.WSPath = %q, want %q", cfg.Server.WSPath, DefaultWSPath)
			}
			if cfg.WriteTimeout() != 10*time.Second {
				t.Errorf("WriteTimeout() = %v, want 10s", cfg.WriteTimeout())
			}
			if len(cfg.Routes) != 1 || len(cfg.Routes[0].Children) != 1 {
				t.Fatalf("Routes = %+v", cfg.Routes)
			}
			if child := cfg.Routes[0].Children[0]; child.Pattern != ":id" || !child.End {
				t.Errorf("child route = %+v", child)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); err == nil {
		t.Error("expected error for missing config")
	}
	if Exists(dir) {
		t.Error("Exists() = true for an empty directory")
	}

	if err := os.WriteFile(filepath.Join(dir, "vroute.yml"), []byte(yamlConfig), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(dir) {
		t.Error("Exists() = false with vroute.yml present")
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Base != "/app" {
		t.Errorf("Base = %q, want %q", cfg.Base, "/app")
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, rerrors.New(rerrors.CodeConfigRead)) {
		t.Errorf("missing file error = %v, want C001", err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	_, err = LoadFile(bad)
	if !errors.Is(err, rerrors.New(rerrors.CodeConfigFormat)) {
		t.Errorf("bad JSON error = %v, want C002", err)
	}

	ini := filepath.Join(dir, "vroute.ini")
	os.WriteFile(ini, []byte("base=/"), 0644)
	_, err = LoadFile(ini)
	if !errors.Is(err, rerrors.New(rerrors.CodeConfigFormat)) {
		t.Errorf("unsupported extension error = %v, want C002", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"mode", func(c *Config) { c.Mode = "browser" }},
		{"max history", func(c *Config) { c.MaxHistory = -1 }},
		{"ws path", func(c *Config) { c.Server.WSPath = "ws" }},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"ping interval", func(c *Config) { c.Server.PingInterval = "soon" }},
		{"write timeout", func(c *Config) { c.Server.WriteTimeout = "-1s" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"routes", func(c *Config) { c.Base = "http://x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, rerrors.ErrConfigInvalid) {
				t.Errorf("Validate() = %v, want C003", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName+ext)

			cfg := New()
			cfg.Base = "/docs"
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Base != "/docs" || loaded.Server.Listen != DefaultListen {
				t.Errorf("loaded %+v", loaded)
			}
		})
	}

	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output %q is not JSON", out)
	}
}
