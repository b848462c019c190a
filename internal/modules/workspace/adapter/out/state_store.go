package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	workspaceout "actograph/internal/modules/workspace/port/out"
)

type workspaceState struct {
	CurrentSessionID string `json:"current_session_id"`
}

// FileStateStore persists the current-session selection between runs.
type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) workspaceout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) SaveCurrent(_ context.Context, sessionID string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(workspaceState{CurrentSessionID: sessionID}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace state: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write workspace state: %w", err)
	}
	return nil
}

func (s *FileStateStore) LoadCurrent(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read workspace state: %w", err)
	}
	state := workspaceState{}
	if err := json.Unmarshal(payload, &state); err != nil {
		return "", fmt.Errorf("decode workspace state: %w", err)
	}
	return state.CurrentSessionID, nil
}
