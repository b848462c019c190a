package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pluginout "actograph/internal/modules/plugin/adapter/out"
)

func writePluginsFile(t *testing.T, base, content string) {
	t.Helper()
	dir := filepath.Join(base, "plugins")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir plugins: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugins.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
}

func TestLoadWithoutManifestFileReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := pluginout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected no manifests, got %d", len(manifests))
	}
}

func TestLoadResolvesRelativeBinaryPaths(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writePluginsFile(t, base, `[
  {"name":"summary","version":"1.0.0","binary":"plugins/summary/summary","sha256":"`+sixtyFourHex+`","enabled":true,"capabilities":["render"]},
  {"name":"abs","version":"1.0.0","binary":"/usr/local/bin/abs-plugin","sha256":"`+sixtyFourHex+`","enabled":true,"capabilities":["analyze"]}
]`)

	store := pluginout.NewFileManifestStore(base)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("expected 2 manifests, got %d", len(manifests))
	}
	want := filepath.Join(base, "plugins", "summary", "summary")
	if manifests[0].Binary != want {
		t.Fatalf("relative binary must resolve against the workspace, got %q", manifests[0].Binary)
	}
	if manifests[1].Binary != "/usr/local/bin/abs-plugin" {
		t.Fatalf("absolute binary must pass through, got %q", manifests[1].Binary)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writePluginsFile(t, base, `[{"name":"summary","version":"1.0.0","binary":"x","sha256":"`+sixtyFourHex+`","enabled":true,"capabilities":["render"],"surprise":true}]`)

	store := pluginout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writePluginsFile(t, base, `[{"name": "summary"`)

	store := pluginout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

const sixtyFourHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
