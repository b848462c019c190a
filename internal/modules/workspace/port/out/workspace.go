package out

import (
	"context"

	"actograph/internal/modules/workspace/domain"
)

// SessionStore is the persistence collaborator. Every mutating workspace
// operation dispatches a write here before it is considered complete;
// ListAll hydrates the workspace at application start.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, sessionID string) error
	ListAll(ctx context.Context) ([]domain.Session, error)
}

// ActivityCatalog persists the activity reference set. Load seeds the
// default catalog when none exists yet.
type ActivityCatalog interface {
	Load(ctx context.Context) ([]domain.Activity, error)
	Save(ctx context.Context, activities []domain.Activity) error
}

// StateStore persists the current-session selection across runs.
type StateStore interface {
	SaveCurrent(ctx context.Context, sessionID string) error
	LoadCurrent(ctx context.Context) (string, error)
}

// NoteWriter renders a session as a markdown study note.
type NoteWriter interface {
	WriteNote(ctx context.Context, session domain.Session) (string, error)
}
