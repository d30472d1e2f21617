// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"

	"github.com/hylla/choreboard/internal/app"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// RequestIDHeader carries the caller's correlation id.
const RequestIDHeader = "X-Request-Id"

// BoardRequest selects the board to read. An empty Kid reads every chore.
type BoardRequest struct {
	Kid string
}

// UpdateStatusRequest is one status change as accepted on the wire.
type UpdateStatusRequest struct {
	TaskID    int64  `json:"task_id"`
	Status    string `json:"status"`
	RequestID string `json:"-"`
	Source    string `json:"-"`
}

// StatusUpdate is the success reply to one status change.
type StatusUpdate struct {
	OK     bool   `json:"ok"`
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
}

// ChoreService is the app-facing contract shared by the HTTP and MCP adapters.
type ChoreService interface {
	Board(context.Context, BoardRequest) (app.BoardView, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (StatusUpdate, error)
}
