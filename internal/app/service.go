package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/choreboard/internal/domain"
)

// DayLayout formats the calendar day a status belongs to.
const DayLayout = "2006-01-02"

// Clock returns the current time.
type Clock func() time.Time

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	// Location decides where a day begins. Nil uses time.Local.
	Location *time.Location
}

// SeedChore is one chore inserted into an empty store.
type SeedChore struct {
	Kid       string
	Title     string
	SortOrder int
}

// DefaultSeed returns the starter chores for a new store.
func DefaultSeed() []SeedChore {
	return []SeedChore{
		{Kid: "Griffin", Title: "Make bed", SortOrder: 1},
		{Kid: "Griffin", Title: "Brush teeth", SortOrder: 2},
		{Kid: "Griffin", Title: "Feed the cat", SortOrder: 3},
		{Kid: "Garreth", Title: "Put toys away", SortOrder: 1},
		{Kid: "Garreth", Title: "Set the table", SortOrder: 2},
	}
}

// ChoreView is one chore as served to board clients.
type ChoreView struct {
	ID        int64         `json:"id"`
	Kid       string        `json:"kid"`
	Title     string        `json:"title"`
	SortOrder int           `json:"sort_order"`
	Status    domain.Status `json:"status"`
	Label     string        `json:"label"`
}

// BoardView is the day's board. Kids is the JSON owner list used to build
// filter tabs; it is an empty array when the board is scoped to one kid.
type BoardView struct {
	Day    string          `json:"day"`
	Kid    string          `json:"kid,omitempty"`
	Kids   json.RawMessage `json:"kids"`
	Chores []ChoreView     `json:"chores"`
}

// Service represents service data used by this package.
type Service struct {
	repo     Repository
	clock    Clock
	location *time.Location
}

// NewService constructs a new value for this package.
func NewService(repo Repository, clock Clock, cfg ServiceConfig) *Service {
	if clock == nil {
		clock = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		repo:     repo,
		clock:    clock,
		location: cfg.Location,
	}
}

// Today returns the calendar day statuses are currently recorded against.
func (s *Service) Today() string {
	return s.clock().In(s.location).Format(DayLayout)
}

// EnsureSeed inserts seeds only when the store has no chores. It returns the
// number of chores created.
func (s *Service) EnsureSeed(ctx context.Context, seeds []SeedChore) (int, error) {
	count, err := s.repo.CountChores(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for idx, seed := range seeds {
		if _, err := s.CreateChore(ctx, seed.Kid, seed.Title, seed.SortOrder); err != nil {
			return idx, fmt.Errorf("seed chore %d: %w", idx, err)
		}
	}
	return len(seeds), nil
}

// CreateChore creates chore.
func (s *Service) CreateChore(ctx context.Context, kid, title string, sortOrder int) (domain.Chore, error) {
	chore, err := domain.NewChore(domain.ChoreInput{
		Kid:       kid,
		Title:     title,
		SortOrder: sortOrder,
	})
	if err != nil {
		return domain.Chore{}, err
	}
	return s.repo.CreateChore(ctx, chore)
}

// Board returns today's board, optionally scoped to one kid.
func (s *Service) Board(ctx context.Context, kid string) (BoardView, error) {
	kid = strings.TrimSpace(kid)
	day := s.Today()
	chores, err := s.repo.ListChoresForDay(ctx, kid, day)
	if err != nil {
		return BoardView{}, err
	}

	kids := []string{}
	if kid == "" {
		kids, err = s.repo.ListKids(ctx)
		if err != nil {
			return BoardView{}, err
		}
	}
	rawKids, err := json.Marshal(kids)
	if err != nil {
		return BoardView{}, fmt.Errorf("encode kid list: %w", err)
	}

	view := BoardView{
		Day:    day,
		Kid:    kid,
		Kids:   rawKids,
		Chores: make([]ChoreView, 0, len(chores)),
	}
	for _, chore := range chores {
		view.Chores = append(view.Chores, choreViewFromDomain(chore))
	}
	return view, nil
}

// UpdateStatus records status as the chore's status for today.
func (s *Service) UpdateStatus(ctx context.Context, choreID int64, status domain.Status) (domain.Chore, error) {
	if choreID <= 0 {
		return domain.Chore{}, domain.ErrInvalidID
	}
	if !status.Valid() {
		return domain.Chore{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	chore, err := s.repo.GetChore(ctx, choreID)
	if err != nil {
		return domain.Chore{}, err
	}
	now := s.clock()
	entry := StatusEntry{
		ChoreID:   chore.ID,
		Day:       now.In(s.location).Format(DayLayout),
		Status:    status,
		UpdatedAt: now.UTC(),
	}
	if meta, ok := RequestMetaFromContext(ctx); ok {
		entry.UpdatedBy = meta.Source
	}
	if err := s.repo.UpsertStatus(ctx, entry); err != nil {
		return domain.Chore{}, err
	}
	if err := chore.SetStatus(status); err != nil {
		return domain.Chore{}, err
	}
	return chore, nil
}

// choreViewFromDomain converts one chore into its wire form.
func choreViewFromDomain(chore domain.Chore) ChoreView {
	status := chore.Status
	if !status.Valid() {
		status = domain.StatusPending
	}
	return ChoreView{
		ID:        chore.ID,
		Kid:       chore.Kid,
		Title:     chore.Title,
		SortOrder: chore.SortOrder,
		Status:    status,
		Label:     status.Label(),
	}
}
