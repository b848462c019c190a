package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"actograph/internal/modules/workspace/domain"
	workspaceout "actograph/internal/modules/workspace/port/out"
)

// VaultSessionStore keeps one JSON document per session under
// <workspace>/sessions/. It is the plain-files alternative to the SQLite
// backend and shares its Put/Delete/ListAll contract.
type VaultSessionStore struct {
	dir string
}

func NewVaultSessionStore(workspacePath string) workspaceout.SessionStore {
	return &VaultSessionStore{dir: filepath.Join(workspacePath, "sessions")}
}

func (s *VaultSessionStore) Put(_ context.Context, session domain.Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	path := s.path(session.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", session.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session %s: %w", session.ID, err)
	}
	return nil
}

func (s *VaultSessionStore) Delete(_ context.Context, sessionID string) error {
	if err := os.Remove(s.path(sessionID)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *VaultSessionStore) ListAll(_ context.Context) ([]domain.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Session{}, nil
		}
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	sessions := []domain.Session{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read session file %s: %w", entry.Name(), err)
		}
		session := domain.Session{}
		if err := json.Unmarshal(payload, &session); err != nil {
			return nil, fmt.Errorf("decode session file %s: %w", entry.Name(), err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *VaultSessionStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}
