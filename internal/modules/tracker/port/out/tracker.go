package out

import (
	"context"

	"actograph/internal/modules/tracker/domain"
)

// StateStore persists the tracking state between runs. Load returns a fresh
// Idle state when nothing has been saved yet.
type StateStore interface {
	Save(ctx context.Context, state domain.TrackingState) error
	Load(ctx context.Context) (domain.TrackingState, error)
	Clear(ctx context.Context) error
}
