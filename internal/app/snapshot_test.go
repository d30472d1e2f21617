package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hylla/choreboard/internal/domain"
)

// TestSnapshotRoundTrip verifies export then import into an empty store reproduces chores and log.
func TestSnapshotRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	src := NewService(newFakeRepo(), fixedClock(now), ServiceConfig{Location: time.UTC})
	if _, err := src.EnsureSeed(context.Background(), DefaultSeed()); err != nil {
		t.Fatalf("EnsureSeed() error = %v", err)
	}
	if _, err := src.UpdateStatus(context.Background(), 3, domain.StatusSkipped); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	snap, err := src.ExportSnapshot(context.Background())
	if err != nil {
		t.Fatalf("ExportSnapshot() error = %v", err)
	}
	if snap.Version != SnapshotVersion || len(snap.Chores) != 5 || len(snap.StatusLog) != 1 {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
	if snap.Chores[0].ID != 1 || snap.Chores[4].ID != 5 {
		t.Fatalf("snapshot chores not sorted by id: %#v", snap.Chores)
	}

	dstRepo := newFakeRepo()
	dst := NewService(dstRepo, fixedClock(now), ServiceConfig{Location: time.UTC})
	if err := dst.ImportSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("ImportSnapshot() error = %v", err)
	}
	view, err := dst.Board(context.Background(), "")
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	found := false
	for _, chore := range view.Chores {
		if chore.ID == 3 {
			found = chore.Status == domain.StatusSkipped
		}
	}
	if !found {
		t.Fatalf("imported chore 3 missing skipped status: %#v", view.Chores)
	}
}

// TestSnapshotValidate verifies malformed snapshots are rejected.
func TestSnapshotValidate(t *testing.T) {
	valid := func() Snapshot {
		return Snapshot{
			Version: SnapshotVersion,
			Chores:  []SnapshotChore{{ID: 1, Kid: "Ana", Title: "Sweep"}},
			StatusLog: []SnapshotLogEntry{
				{ChoreID: 1, Day: "2026-03-04", Status: domain.StatusDone},
			},
		}
	}
	cases := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{name: "version", mutate: func(s *Snapshot) { s.Version = "other.v9" }},
		{name: "missing id", mutate: func(s *Snapshot) { s.Chores[0].ID = 0 }},
		{name: "blank title", mutate: func(s *Snapshot) { s.Chores[0].Title = " " }},
		{name: "duplicate chore", mutate: func(s *Snapshot) { s.Chores = append(s.Chores, s.Chores[0]) }},
		{name: "unknown chore", mutate: func(s *Snapshot) { s.StatusLog[0].ChoreID = 9 }},
		{name: "bad day", mutate: func(s *Snapshot) { s.StatusLog[0].Day = "yesterday" }},
		{name: "bad status", mutate: func(s *Snapshot) { s.StatusLog[0].Status = "archived" }},
		{name: "duplicate day", mutate: func(s *Snapshot) { s.StatusLog = append(s.StatusLog, s.StatusLog[0]) }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate(valid) error = %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := valid()
			tc.mutate(&snap)
			if err := snap.Validate(); !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("Validate() error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}
