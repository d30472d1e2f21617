package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Status is the per-day completion state of a chore.
type Status string

// Status values accepted by the store and the board.
const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

var validStatuses = []Status{StatusPending, StatusDone, StatusSkipped}

var statusLabels = map[Status]string{
	StatusPending: "Pending ⏳",
	StatusDone:    "Done ✅",
	StatusSkipped: "Skipped ⏭",
}

// Statuses returns every accepted status in canonical order.
func Statuses() []Status {
	return slices.Clone(validStatuses)
}

// ParseStatus normalizes raw input into a known status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Valid reports whether s is one of the accepted statuses.
func (s Status) Valid() bool {
	return slices.Contains(validStatuses, s)
}

// Resolved reports whether s moves a chore off the active list.
func (s Status) Resolved() bool {
	return s != StatusPending
}

// Label returns the display label for s. Unknown values render as pending.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return statusLabels[StatusPending]
}
