package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hylla/choreboard/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "choreboard.snapshot.v1"

// Snapshot represents snapshot data used by this package.
type Snapshot struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Chores     []SnapshotChore    `json:"chores"`
	StatusLog  []SnapshotLogEntry `json:"status_log,omitempty"`
}

// SnapshotChore represents snapshot chore data used by this package.
type SnapshotChore struct {
	ID        int64  `json:"id"`
	Kid       string `json:"kid"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
}

// SnapshotLogEntry is one recorded day status.
type SnapshotLogEntry struct {
	ChoreID   int64         `json:"chore_id"`
	Day       string        `json:"day"`
	Status    domain.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
	UpdatedBy string        `json:"updated_by,omitempty"`
}

// ExportSnapshot handles export snapshot.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	chores, err := s.repo.ListChoresForDay(ctx, "", s.Today())
	if err != nil {
		return Snapshot{}, err
	}
	entries, err := s.repo.ListStatusEntries(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Chores:     make([]SnapshotChore, 0, len(chores)),
		StatusLog:  make([]SnapshotLogEntry, 0, len(entries)),
	}
	for _, chore := range chores {
		snap.Chores = append(snap.Chores, SnapshotChore{
			ID:        chore.ID,
			Kid:       chore.Kid,
			Title:     chore.Title,
			SortOrder: chore.SortOrder,
		})
	}
	for _, entry := range entries {
		snap.StatusLog = append(snap.StatusLog, SnapshotLogEntry(entry))
	}
	snap.sort()
	return snap, nil
}

// ImportSnapshot handles import snapshot. Chores are upserted by id and log
// entries by chore and day.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()

	for _, chore := range snap.Chores {
		if _, err := s.repo.CreateChore(ctx, domain.Chore{
			ID:        chore.ID,
			Kid:       strings.TrimSpace(chore.Kid),
			Title:     strings.TrimSpace(chore.Title),
			SortOrder: chore.SortOrder,
			Status:    domain.StatusPending,
		}); err != nil {
			return err
		}
	}
	for _, entry := range snap.StatusLog {
		if err := s.repo.UpsertStatus(ctx, StatusEntry(entry)); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the requested operation.
func (s *Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, s.Version)
	}

	choreIDs := map[int64]struct{}{}
	for i, chore := range s.Chores {
		if chore.ID <= 0 {
			return fmt.Errorf("%w: chores[%d].id is required", ErrInvalidSnapshot, i)
		}
		if strings.TrimSpace(chore.Kid) == "" || strings.TrimSpace(chore.Title) == "" {
			return fmt.Errorf("%w: chores[%d] kid and title are required", ErrInvalidSnapshot, i)
		}
		if _, exists := choreIDs[chore.ID]; exists {
			return fmt.Errorf("%w: duplicate chore id %d", ErrInvalidSnapshot, chore.ID)
		}
		choreIDs[chore.ID] = struct{}{}
	}

	type logKey struct {
		choreID int64
		day     string
	}
	seen := map[logKey]struct{}{}
	for i, entry := range s.StatusLog {
		if _, ok := choreIDs[entry.ChoreID]; !ok {
			return fmt.Errorf("%w: status_log[%d] references unknown chore %d", ErrInvalidSnapshot, i, entry.ChoreID)
		}
		if _, err := time.Parse(DayLayout, entry.Day); err != nil {
			return fmt.Errorf("%w: status_log[%d].day %q", ErrInvalidSnapshot, i, entry.Day)
		}
		if !entry.Status.Valid() {
			return fmt.Errorf("%w: status_log[%d].status %q", ErrInvalidSnapshot, i, entry.Status)
		}
		key := logKey{choreID: entry.ChoreID, day: entry.Day}
		if _, exists := seen[key]; exists {
			return fmt.Errorf("%w: duplicate status for chore %d on %s", ErrInvalidSnapshot, entry.ChoreID, entry.Day)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// sort orders chores by id and log entries by day then chore.
func (s *Snapshot) sort() {
	sort.SliceStable(s.Chores, func(i, j int) bool {
		return s.Chores[i].ID < s.Chores[j].ID
	})
	sort.SliceStable(s.StatusLog, func(i, j int) bool {
		if s.StatusLog[i].Day != s.StatusLog[j].Day {
			return s.StatusLog[i].Day < s.StatusLog[j].Day
		}
		return s.StatusLog[i].ChoreID < s.StatusLog[j].ChoreID
	})
}
