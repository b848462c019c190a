package config

import (
	"fmt"
	"path/filepath"
)

const (
	BackendSQLite = "sqlite"
	BackendVault  = "vault"
)

type Config struct {
	WorkspacePath string
	Backend       string
	DBPath        string
	CatalogPath   string
	StatePath     string
	TrackingPath  string
}

func New(workspacePath, backend string) (Config, error) {
	if workspacePath == "" {
		return Config{}, fmt.Errorf("workspace path is required")
	}
	switch backend {
	case BackendSQLite, BackendVault:
	default:
		return Config{}, fmt.Errorf("unknown storage backend: %s", backend)
	}
	return Config{
		WorkspacePath: workspacePath,
		Backend:       backend,
		DBPath:        filepath.Join(workspacePath, ".actograph", "actograph.db"),
		CatalogPath:   filepath.Join(workspacePath, ".actograph", "activities.yaml"),
		StatePath:     filepath.Join(workspacePath, ".actograph", "workspace.json"),
		TrackingPath:  filepath.Join(workspacePath, ".actograph", "tracking.json"),
	}, nil
}
