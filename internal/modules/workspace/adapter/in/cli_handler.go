package in

import (
	"context"

	"actograph/internal/modules/workspace/dto"
	workspacein "actograph/internal/modules/workspace/port/in"
)

type CLIHandler struct {
	usecase workspacein.Usecase
}

func NewCLIHandler(usecase workspacein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, name string) (dto.SessionOutput, error) {
	return h.usecase.Create(ctx, dto.CreateSessionInput{Name: name})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, sessionID string) (dto.SessionDetailOutput, error) {
	return h.usecase.Get(ctx, sessionID)
}

func (h CLIHandler) Current(ctx context.Context) (dto.SessionDetailOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Load(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Load(ctx, sessionID)
}

func (h CLIHandler) Delete(ctx context.Context, sessionID string) error {
	return h.usecase.Delete(ctx, sessionID)
}

func (h CLIHandler) SetNotes(ctx context.Context, sessionID, notes string) (dto.SessionOutput, error) {
	return h.usecase.SetNotes(ctx, dto.SetNotesInput{SessionID: sessionID, Notes: notes})
}

func (h CLIHandler) SetVideo(ctx context.Context, sessionID, videoRef string) (dto.SessionOutput, error) {
	return h.usecase.SetVideo(ctx, dto.SetVideoInput{SessionID: sessionID, VideoRef: videoRef})
}

func (h CLIHandler) SetStatus(ctx context.Context, sessionID, status string) (dto.SessionOutput, error) {
	return h.usecase.SetStatus(ctx, dto.SetStatusInput{SessionID: sessionID, Status: status})
}

func (h CLIHandler) Export(ctx context.Context, sessionID string) ([]byte, error) {
	return h.usecase.Export(ctx, sessionID)
}

func (h CLIHandler) Import(ctx context.Context, data []byte) (dto.SessionOutput, error) {
	return h.usecase.Import(ctx, data)
}

func (h CLIHandler) WriteNote(ctx context.Context, sessionID string) (string, error) {
	return h.usecase.WriteNote(ctx, sessionID)
}

func (h CLIHandler) ListActivities(ctx context.Context) ([]dto.ActivityOutput, error) {
	return h.usecase.ListActivities(ctx)
}

func (h CLIHandler) AddActivity(ctx context.Context, id, name, colorTag, description string) (dto.ActivityOutput, error) {
	return h.usecase.AddActivity(ctx, dto.AddActivityInput{ID: id, Name: name, ColorTag: colorTag, Description: description})
}
