package app

import (
	"context"
	"time"

	"github.com/hylla/choreboard/internal/domain"
)

// StatusEntry is one chore's recorded status for one day.
type StatusEntry struct {
	ChoreID   int64
	Day       string
	Status    domain.Status
	UpdatedAt time.Time
	UpdatedBy string
}

// Repository represents repository data used by this package.
type Repository interface {
	// CreateChore inserts chore and returns it with its id. A positive id is kept
	// and replaces any existing row with that id.
	CreateChore(context.Context, domain.Chore) (domain.Chore, error)
	GetChore(context.Context, int64) (domain.Chore, error)
	CountChores(context.Context) (int, error)
	ListKids(context.Context) ([]string, error)
	// ListChoresForDay returns chores ordered by kid then sort order, with the
	// day's status applied. An empty kid lists every chore.
	ListChoresForDay(context.Context, string, string) ([]domain.Chore, error)

	UpsertStatus(context.Context, StatusEntry) error
	ListStatusEntries(context.Context) ([]StatusEntry, error)
}
