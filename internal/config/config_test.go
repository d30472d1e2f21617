package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/choreboard.db")
	if cfg.Database.Path != "/tmp/choreboard.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Server.Bind != "127.0.0.1:5000" || cfg.Server.APIEndpoint != "/api" || cfg.Server.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected server defaults %#v", cfg.Server)
	}
	if cfg.Board.UnitsPerCell != 8 || cfg.Board.SnapBackOnFailure {
		t.Fatalf("unexpected board defaults %#v", cfg.Board)
	}
	if len(cfg.Seed) != 5 {
		t.Fatalf("expected five seed chores, got %d", len(cfg.Seed))
	}
	timeout, err := cfg.RemoteTimeout()
	if err != nil || timeout != 5*time.Second {
		t.Fatalf("RemoteTimeout() = %s, %v", timeout, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/choreboard.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != defaults.Database.Path {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/custom/chores.db"

[server]
bind = "0.0.0.0:5050"

[remote]
base_url = "http://pi.local:5050"
timeout = "2s"

[board]
units_per_cell = 4
snap_back_on_failure = true
kid = "Griffin"

[keys]
reload = "ctrl+r"

[logging]
level = "debug"

[[seed]]
kid = "Ana"
title = "Water plants"
sort_order = 1
`)

	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/custom/chores.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Server.Bind != "0.0.0.0:5050" || cfg.Server.APIEndpoint != "/api" {
		t.Fatalf("unexpected server %#v", cfg.Server)
	}
	if timeout, _ := cfg.RemoteTimeout(); timeout != 2*time.Second {
		t.Fatalf("unexpected timeout %s", timeout)
	}
	if cfg.Board.UnitsPerCell != 4 || !cfg.Board.SnapBackOnFailure || cfg.Board.Kid != "Griffin" {
		t.Fatalf("unexpected board %#v", cfg.Board)
	}
	if cfg.Keys.Reload != "ctrl+r" || cfg.Keys.Help != "?" {
		t.Fatalf("unexpected keys %#v", cfg.Keys)
	}
	if len(cfg.Seed) != 1 || cfg.Seed[0].Title != "Water plants" {
		t.Fatalf("expected seed list replaced, got %#v", cfg.Seed)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "units per cell", content: "[board]\nunits_per_cell = 0\n", want: "units_per_cell"},
		{name: "timeout", content: "[remote]\ntimeout = \"soon\"\n", want: "remote.timeout"},
		{name: "log level", content: "[logging]\nlevel = \"loud\"\n", want: "logging.level"},
		{name: "endpoint collision", content: "[server]\napi_endpoint = \"/mcp/\"\n", want: "must differ"},
		{name: "seed title", content: "[[seed]]\nkid = \"Ana\"\n", want: "seed[0].title"},
		{name: "seed duplicate", content: "[[seed]]\nkid = \"Ana\"\ntitle = \"Bed\"\n[[seed]]\nkid = \"ana\"\ntitle = \"bed\"\n", want: "duplicates"},
		{name: "bad toml", content: "[board\n", want: "decode toml"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), Default("/tmp/default.db"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
