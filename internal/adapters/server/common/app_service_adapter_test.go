package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hylla/choreboard/internal/adapters/storage/sqlite"
	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/domain"
)

func newTestAdapter(t *testing.T) (*AppServiceAdapter, *sqlite.Repository) {
	t.Helper()
	repo, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	svc := app.NewService(repo, func() time.Time { return now }, app.ServiceConfig{Location: time.UTC})
	if _, err := svc.EnsureSeed(context.Background(), app.DefaultSeed()); err != nil {
		t.Fatalf("EnsureSeed() error = %v", err)
	}
	return NewAppServiceAdapter(svc), repo
}

// TestAppServiceAdapterUpdateStatus verifies a valid request is recorded with its source.
func TestAppServiceAdapterUpdateStatus(t *testing.T) {
	adapter, repo := newTestAdapter(t)

	got, err := adapter.UpdateStatus(context.Background(), UpdateStatusRequest{
		TaskID:    1,
		Status:    " Done ",
		RequestID: "req-1",
		Source:    "http",
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if !got.OK || got.TaskID != 1 || got.Status != "done" {
		t.Fatalf("UpdateStatus() = %#v", got)
	}
	entries, err := repo.ListStatusEntries(context.Background())
	if err != nil {
		t.Fatalf("ListStatusEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].UpdatedBy != "http" || entries[0].Status != domain.StatusDone {
		t.Fatalf("entries = %#v", entries)
	}
}

// TestAppServiceAdapterErrorMapping verifies app and domain failures map to transport sentinels.
func TestAppServiceAdapterErrorMapping(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	cases := []struct {
		name string
		req  UpdateStatusRequest
		want error
	}{
		{name: "missing id", req: UpdateStatusRequest{Status: "done"}, want: ErrInvalidRequest},
		{name: "invalid status", req: UpdateStatusRequest{TaskID: 1, Status: "finished"}, want: ErrInvalidRequest},
		{name: "unknown chore", req: UpdateStatusRequest{TaskID: 99, Status: "done"}, want: ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := adapter.UpdateStatus(context.Background(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("UpdateStatus() error = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestAppServiceAdapterBoard verifies board reads pass the kid scope through.
func TestAppServiceAdapterBoard(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	view, err := adapter.Board(context.Background(), BoardRequest{Kid: "Garreth"})
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if view.Kid != "Garreth" || len(view.Chores) != 2 {
		t.Fatalf("Board() = %#v", view)
	}
}

// TestNilAdapterFailsClosed verifies an unconfigured adapter reports an error.
func TestNilAdapterFailsClosed(t *testing.T) {
	var adapter *AppServiceAdapter
	if _, err := adapter.Board(context.Background(), BoardRequest{}); err == nil {
		t.Fatal("Board() expected error for nil adapter")
	}
}
