package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/domain"
)

// Store is the remote status store the board reconciles against.
type Store interface {
	Board(ctx context.Context, kid string) (app.BoardView, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.StatusAck, error)
}

// KeyConfig holds user key overrides.
type KeyConfig struct {
	Help    string
	Reload  string
	NextTab string
	PrevTab string
	Copy    string
}

// RuntimeConfig carries the config-file settings the model honors.
type RuntimeConfig struct {
	UnitsPerCell      int
	SnapBackOnFailure bool
	Kid               string
	Keys              KeyConfig
}

type Option func(*Model)

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{UnitsPerCell: defaultUnitsPerCell}
}

func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		if cfg.UnitsPerCell > 0 {
			m.unitsPerCell = cfg.UnitsPerCell
		}
		m.snapBack = cfg.SnapBackOnFailure
		m.kid = cfg.Kid
		m.keys.applyConfig(cfg.Keys)
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClipboard replaces the clipboard writer used by the copy key.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}

// systemClipboard writes to the OS clipboard.
func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
