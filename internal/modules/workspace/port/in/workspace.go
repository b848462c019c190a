package in

import (
	"context"

	"actograph/internal/modules/workspace/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateSessionInput) (dto.SessionOutput, error)
	List(ctx context.Context) ([]dto.SessionOutput, error)
	Get(ctx context.Context, sessionID string) (dto.SessionDetailOutput, error)
	Current(ctx context.Context) (dto.SessionDetailOutput, error)
	Load(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	Delete(ctx context.Context, sessionID string) error
	SetNotes(ctx context.Context, input dto.SetNotesInput) (dto.SessionOutput, error)
	SetVideo(ctx context.Context, input dto.SetVideoInput) (dto.SessionOutput, error)
	SetStatus(ctx context.Context, input dto.SetStatusInput) (dto.SessionOutput, error)
	Export(ctx context.Context, sessionID string) ([]byte, error)
	Import(ctx context.Context, data []byte) (dto.SessionOutput, error)
	WriteNote(ctx context.Context, sessionID string) (string, error)
	ListActivities(ctx context.Context) ([]dto.ActivityOutput, error)
	AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error)
	LogEvent(ctx context.Context, input dto.LogEventInput) (dto.LogEventOutput, error)
	CloseOpenEvent(ctx context.Context, input dto.CloseEventInput) (dto.CloseEventOutput, error)
}
