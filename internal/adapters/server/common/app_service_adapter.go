package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/domain"
)

// AppServiceAdapter maps transport contracts onto app.Service board APIs.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// Board reads today's board through app-level APIs.
func (a *AppServiceAdapter) Board(ctx context.Context, in BoardRequest) (app.BoardView, error) {
	if a == nil || a.service == nil {
		return app.BoardView{}, errors.New("app service adapter is not configured")
	}
	view, err := a.service.Board(ctx, in.Kid)
	if err != nil {
		return app.BoardView{}, mapAppError("read board", err)
	}
	return view, nil
}

// UpdateStatus validates one wire request and records it through app-level APIs.
func (a *AppServiceAdapter) UpdateStatus(ctx context.Context, in UpdateStatusRequest) (StatusUpdate, error) {
	if a == nil || a.service == nil {
		return StatusUpdate{}, errors.New("app service adapter is not configured")
	}
	if in.TaskID <= 0 {
		return StatusUpdate{}, fmt.Errorf("task_id is required: %w", ErrInvalidRequest)
	}
	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return StatusUpdate{}, mapAppError("update status", err)
	}

	ctx = app.WithRequestMeta(ctx, app.RequestMeta{RequestID: in.RequestID, Source: in.Source})
	chore, err := a.service.UpdateStatus(ctx, in.TaskID, status)
	if err != nil {
		return StatusUpdate{}, mapAppError("update status", err)
	}
	return StatusUpdate{OK: true, TaskID: chore.ID, Status: string(chore.Status)}, nil
}

// mapAppError maps app/domain errors into transport-layer error sentinels.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidKid),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidPosition):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
