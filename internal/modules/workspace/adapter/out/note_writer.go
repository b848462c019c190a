package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"actograph/internal/modules/workspace/domain"
	workspaceout "actograph/internal/modules/workspace/port/out"
	"actograph/internal/platform/markdown"
	"actograph/internal/platform/slug"
)

// VaultNoteWriter renders a session as a markdown study note with YAML
// frontmatter, filed by recording date.
type VaultNoteWriter struct {
	workspacePath string
}

func NewVaultNoteWriter(workspacePath string) workspaceout.NoteWriter {
	return &VaultNoteWriter{workspacePath: workspacePath}
}

func (w *VaultNoteWriter) WriteNote(_ context.Context, session domain.Session) (string, error) {
	date := time.UnixMilli(session.CreatedAt).UTC()
	dir := filepath.Join(w.workspacePath, "notes", date.Format("2006"), date.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create notes dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("02-150405"), slug.Make(session.Name))
	path := filepath.Join(dir, name)

	meta := map[string]any{
		"id":                session.ID,
		"name":              session.Name,
		"status":            string(session.Status),
		"created_at":        date.Format(time.RFC3339),
		"updated_at":        time.UnixMilli(session.UpdatedAt).UTC().Format(time.RFC3339),
		"event_count":       len(session.Events),
		"total_duration_ms": session.TotalDuration(),
	}
	if session.VideoRef != "" {
		meta["video_ref"] = session.VideoRef
	}

	body := strings.Builder{}
	body.WriteString(fmt.Sprintf("# %s\n\n", session.Name))
	if session.Notes != "" {
		body.WriteString(session.Notes)
		body.WriteString("\n\n")
	}
	body.WriteString("## Event log\n\n")
	for _, event := range session.Events {
		start := time.UnixMilli(event.Timestamp).UTC().Format("15:04:05")
		if event.Duration != nil {
			body.WriteString(fmt.Sprintf("- %s %s (%s)\n", start, event.ActivityName, formatDuration(*event.Duration)))
			continue
		}
		body.WriteString(fmt.Sprintf("- %s %s (unfinished)\n", start, event.ActivityName))
	}

	rendered, err := markdown.RenderFrontmatter(meta, body.String())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return d.Round(time.Second).String()
}
