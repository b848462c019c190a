package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the self-describing export format for a single session. The
// shape is fixed: import accepts exactly this top level and nothing else.
type Snapshot struct {
	Version    string  `json:"version"`
	ExportDate string  `json:"exportDate"`
	Session    Session `json:"session"`
}

func EncodeSnapshot(s Session, exportedAt time.Time) ([]byte, error) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportDate: exportedAt.UTC().Format(time.RFC3339),
		Session:    s,
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return payload, nil
}

// DecodeSnapshot parses an export payload back into a session. Any parse or
// shape failure is reported; ownership fields (id, timestamps) are the
// importer's to refresh.
func DecodeSnapshot(data []byte) (Session, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	snap := Snapshot{}
	if err := decoder.Decode(&snap); err != nil {
		return Session{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return Session{}, fmt.Errorf("unsupported snapshot version: %q", snap.Version)
	}
	if snap.Session.ID == "" {
		return Session{}, fmt.Errorf("snapshot session is missing")
	}
	return snap.Session, nil
}
