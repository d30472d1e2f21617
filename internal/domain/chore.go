package domain

import "strings"

// Chore is one recurring task owned by a kid, with its status for the current day.
type Chore struct {
	ID        int64
	Kid       string
	Title     string
	SortOrder int
	Status    Status
}

// ChoreInput holds the values needed to create a chore.
type ChoreInput struct {
	ID        int64
	Kid       string
	Title     string
	SortOrder int
}

// NewChore validates input and returns a pending chore.
func NewChore(in ChoreInput) (Chore, error) {
	in.Kid = strings.TrimSpace(in.Kid)
	in.Title = strings.TrimSpace(in.Title)
	if in.ID < 0 {
		return Chore{}, ErrInvalidID
	}
	if in.Kid == "" {
		return Chore{}, ErrInvalidKid
	}
	if in.Title == "" {
		return Chore{}, ErrInvalidTitle
	}
	if in.SortOrder < 0 {
		return Chore{}, ErrInvalidPosition
	}
	return Chore{
		ID:        in.ID,
		Kid:       in.Kid,
		Title:     in.Title,
		SortOrder: in.SortOrder,
		Status:    StatusPending,
	}, nil
}

// SetStatus applies a validated status.
func (c *Chore) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	c.Status = status
	return nil
}

// StatusAck is the structured reply of the status store to one update request.
// ChoreID and Status echo what the store applied; they are zero when the store
// does not echo them.
type StatusAck struct {
	OK      bool
	Error   string
	ChoreID int64
	Status  Status
}

// Mismatch reports whether a successful ack echoes a different chore or status
// than the one requested.
func (a StatusAck) Mismatch(id int64, status Status) bool {
	if !a.OK {
		return false
	}
	if a.ChoreID != 0 && a.ChoreID != id {
		return true
	}
	return a.Status != "" && a.Status != status
}
