package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"actograph/internal/modules/tracker/domain"
	trackerout "actograph/internal/modules/tracker/port/out"
)

// FileStateStore persists the tracking state as a JSON file so a stopwatch
// keeps counting across process restarts.
type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) trackerout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Save(_ context.Context, state domain.TrackingState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create tracking state dir: %w", err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tracking state: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write tracking state: %w", err)
	}
	return nil
}

func (s *FileStateStore) Load(_ context.Context) (domain.TrackingState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewTrackingState(), nil
		}
		return domain.TrackingState{}, fmt.Errorf("read tracking state: %w", err)
	}
	state := domain.TrackingState{}
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.TrackingState{}, fmt.Errorf("decode tracking state: %w", err)
	}
	return state, nil
}

func (s *FileStateStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear tracking state: %w", err)
	}
	return nil
}
