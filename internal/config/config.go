package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Remote   RemoteConfig   `toml:"remote"`
	Board    BoardConfig    `toml:"board"`
	Keys     KeyConfig      `toml:"keys"`
	Logging  LoggingConfig  `toml:"logging"`
	Seed     []SeedConfig   `toml:"seed"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Bind        string `toml:"bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type RemoteConfig struct {
	BaseURL     string `toml:"base_url"`
	Timeout     string `toml:"timeout"`
	APIEndpoint string `toml:"api_endpoint"`
}

type BoardConfig struct {
	UnitsPerCell      int    `toml:"units_per_cell"`
	SnapBackOnFailure bool   `toml:"snap_back_on_failure"`
	Kid               string `toml:"kid"`
}

type KeyConfig struct {
	Help    string `toml:"help"`
	Reload  string `toml:"reload"`
	NextTab string `toml:"next_tab"`
	PrevTab string `toml:"prev_tab"`
	Copy    string `toml:"copy"`
}

// LoggingConfig controls runtime log level and the optional dev-file sink.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// SeedConfig is one chore inserted into an empty store.
type SeedConfig struct {
	Kid       string `toml:"kid"`
	Title     string `toml:"title"`
	SortOrder int    `toml:"sort_order"`
}

func defaultSeed() []SeedConfig {
	return []SeedConfig{
		{Kid: "Griffin", Title: "Make bed", SortOrder: 1},
		{Kid: "Griffin", Title: "Brush teeth", SortOrder: 2},
		{Kid: "Griffin", Title: "Feed the cat", SortOrder: 3},
		{Kid: "Garreth", Title: "Put toys away", SortOrder: 1},
		{Kid: "Garreth", Title: "Set the table", SortOrder: 2},
	}
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Server: ServerConfig{
			Bind:        "127.0.0.1:5000",
			APIEndpoint: "/api",
			MCPEndpoint: "/mcp",
		},
		Remote: RemoteConfig{
			BaseURL:     "http://127.0.0.1:5000",
			Timeout:     "5s",
			APIEndpoint: "/api",
		},
		Board: BoardConfig{
			UnitsPerCell: 8,
		},
		Keys: KeyConfig{
			Help:    "?",
			Reload:  "r",
			NextTab: "tab",
			PrevTab: "shift+tab",
			Copy:    "c",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".choreboard/log",
			},
		},
		Seed: defaultSeed(),
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// A [[seed]] list in the file replaces the default list instead of extending it.
	defaultSeeds := cfg.Seed
	cfg.Seed = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if len(cfg.Seed) == 0 {
		cfg.Seed = defaultSeeds
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind is required")
	}
	if endpointKey(c.Server.APIEndpoint) == endpointKey(c.Server.MCPEndpoint) {
		return fmt.Errorf("server.api_endpoint and server.mcp_endpoint must differ: %q", c.Server.APIEndpoint)
	}

	if strings.TrimSpace(c.Remote.BaseURL) == "" {
		return errors.New("remote.base_url is required")
	}
	if _, err := c.RemoteTimeout(); err != nil {
		return err
	}

	if c.Board.UnitsPerCell <= 0 {
		return fmt.Errorf("board.units_per_cell must be > 0, got %d", c.Board.UnitsPerCell)
	}

	if _, err := log.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	seen := map[string]int{}
	for idx, seed := range c.Seed {
		kid := strings.TrimSpace(seed.Kid)
		title := strings.TrimSpace(seed.Title)
		if kid == "" {
			return fmt.Errorf("seed[%d].kid is required", idx)
		}
		if title == "" {
			return fmt.Errorf("seed[%d].title is required", idx)
		}
		key := strings.ToLower(kid) + "\x00" + strings.ToLower(title)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("seed[%d] duplicates seed[%d]: %s/%s", idx, prev, kid, title)
		}
		seen[key] = idx
	}

	return nil
}

// RemoteTimeout parses remote.timeout.
func (c Config) RemoteTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Remote.Timeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid remote.timeout %q: %w", c.Remote.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("remote.timeout must be >= 0, got %s", d)
	}
	return d, nil
}

func endpointKey(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/")
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
