package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pluginout "actograph/internal/modules/plugin/adapter/out"
	"actograph/internal/modules/plugin/domain"
	"actograph/internal/modules/plugin/dto"
	"actograph/internal/modules/plugin/service"
)

type fakeHost struct {
	commands     []domain.CommandDescriptor
	result       domain.ExecuteResult
	lifecycleErr error
	executed     *domain.ExecuteRequest
}

func (f *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error {
	return f.lifecycleErr
}

func (f *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Capabilities: m.Capabilities}, nil
}

func (f *fakeHost) ListCommands(context.Context, domain.Manifest) ([]domain.CommandDescriptor, error) {
	return f.commands, nil
}

func (f *fakeHost) Execute(_ context.Context, _ domain.Manifest, req domain.ExecuteRequest) (domain.ExecuteResult, error) {
	f.executed = &req
	return f.result, nil
}

// writePlugin installs a dummy binary plus a manifest whose checksum either
// matches the binary or is deliberately wrong.
func writePlugin(t *testing.T, dir string, manifest domain.Manifest, correctChecksum bool) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(dir, manifest.Name+"-bin")
	payload := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(binPath, payload, 0o755); err != nil {
		t.Fatalf("write plugin binary: %v", err)
	}
	manifest.Binary = binPath
	if correctChecksum {
		sum := sha256.Sum256(payload)
		manifest.SHA256 = hex.EncodeToString(sum[:])
	} else {
		manifest.SHA256 = strings.Repeat("0", 64)
	}
	return manifest
}

func writeManifests(t *testing.T, dir string, manifests []domain.Manifest) {
	t.Helper()
	pluginsDir := filepath.Join(dir, "plugins")
	if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
		t.Fatalf("mkdir plugins: %v", err)
	}
	raw, err := json.Marshal(manifests)
	if err != nil {
		t.Fatalf("marshal manifests: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginsDir, "plugins.json"), raw, 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
}

func baseManifest(name string, caps ...domain.Capability) domain.Manifest {
	return domain.Manifest{
		Name:         name,
		Version:      "1.0.0",
		Enabled:      true,
		Capabilities: caps,
	}
}

func renderInput(plugin, command string) dto.ExecuteInput {
	return dto.ExecuteInput{
		PluginName:    plugin,
		CommandID:     command,
		WorkspacePath: "/tmp/ws",
		Cwd:           "/tmp",
	}
}

func TestExecuteRunsRenderCommand(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), true)
	writeManifests(t, tmp, []domain.Manifest{manifest})

	host := &fakeHost{
		commands: []domain.CommandDescriptor{{ID: "markdown", Kind: domain.CommandKindRender, TimeoutMS: 2500}},
		result:   domain.ExecuteResult{Stdout: "# Report\n", ExitCode: 0},
	}
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), host)

	input := renderInput("summary", "markdown")
	input.InputJSON = `{"snapshot":{}}`
	out, err := svc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Stdout != "# Report\n" || out.ExitCode != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if host.executed == nil || host.executed.InputJSON != `{"snapshot":{}}` {
		t.Fatalf("host must receive the input payload, got %+v", host.executed)
	}
	if host.executed.Context.WorkspacePath != "/tmp/ws" {
		t.Fatalf("host must receive the execute context, got %+v", host.executed.Context)
	}
}

func TestExecuteRejectsInvalidInputJSON(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), true)
	writeManifests(t, tmp, []domain.Manifest{manifest})
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), &fakeHost{})

	input := renderInput("summary", "markdown")
	input.InputJSON = `{"broken":`
	if _, err := svc.Execute(context.Background(), input); err == nil {
		t.Fatalf("expected invalid JSON rejection")
	}
}

func TestExecuteRejectsDisabledPlugin(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), true)
	manifest.Enabled = false
	writeManifests(t, tmp, []domain.Manifest{manifest})
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), &fakeHost{})

	if _, err := svc.Execute(context.Background(), renderInput("summary", "markdown")); !errors.Is(err, domain.ErrPluginDisabled) {
		t.Fatalf("expected ErrPluginDisabled, got %v", err)
	}
}

func TestExecuteRejectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), false)
	writeManifests(t, tmp, []domain.Manifest{manifest})
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), &fakeHost{})

	if _, err := svc.Execute(context.Background(), renderInput("summary", "markdown")); !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestAnalyzeRequiresTheAnalyzeCapability(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), true)
	writeManifests(t, tmp, []domain.Manifest{manifest})
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), &fakeHost{})

	if _, err := svc.Analyze(context.Background(), renderInput("summary", "dominant")); !errors.Is(err, domain.ErrCapabilityMissing) {
		t.Fatalf("expected ErrCapabilityMissing, got %v", err)
	}
}

func TestExecuteRejectsKindMismatchAndUnknownCommand(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender, domain.CapabilityAnalyze), true)
	writeManifests(t, tmp, []domain.Manifest{manifest})
	host := &fakeHost{commands: []domain.CommandDescriptor{
		{ID: "dominant", Kind: domain.CommandKindAnalyze},
	}}
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), host)

	_, err := svc.Execute(context.Background(), renderInput("summary", "dominant"))
	if err == nil || !strings.Contains(err.Error(), "command kind mismatch") {
		t.Fatalf("expected kind mismatch, got %v", err)
	}

	if _, err := svc.Execute(context.Background(), renderInput("summary", "missing")); !errors.Is(err, domain.ErrCommandNotFound) {
		t.Fatalf("expected ErrCommandNotFound, got %v", err)
	}
}

func TestExecuteMapsLifecycleTimeouts(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	manifest := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), true)
	writeManifests(t, tmp, []domain.Manifest{manifest})
	host := &fakeHost{lifecycleErr: context.DeadlineExceeded}
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), host)

	if _, err := svc.Execute(context.Background(), renderInput("summary", "markdown")); !errors.Is(err, domain.ErrPluginTimeout) {
		t.Fatalf("expected ErrPluginTimeout, got %v", err)
	}
}

func TestListRejectsDuplicatePluginNames(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	first := writePlugin(t, tmp, baseManifest("summary", domain.CapabilityRender), true)
	second := first
	writeManifests(t, tmp, []domain.Manifest{first, second})
	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), &fakeHost{})

	if _, err := svc.List(context.Background()); err == nil || !strings.Contains(err.Error(), "duplicate plugin name") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestDoctorReportsBinaryAndChecksumHealth(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	healthy := writePlugin(t, tmp, baseManifest("healthy", domain.CapabilityRender), true)
	stale := writePlugin(t, tmp, baseManifest("stale", domain.CapabilityRender), false)
	missing := baseManifest("missing", domain.CapabilityAnalyze)
	missing.Binary = filepath.Join(tmp, "nowhere")
	missing.SHA256 = strings.Repeat("1", 64)
	writeManifests(t, tmp, []domain.Manifest{healthy, stale, missing})

	svc := service.NewPluginService(pluginout.NewFileManifestStore(tmp), &fakeHost{})
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	byName := map[string]dto.DoctorResult{}
	for _, result := range results {
		byName[result.Name] = result
	}
	if r := byName["healthy"]; !r.BinaryReachable || !r.ChecksumValid || !r.LifecycleOK || r.Error != "" {
		t.Fatalf("healthy plugin flagged: %+v", r)
	}
	if r := byName["stale"]; !r.BinaryReachable || r.ChecksumValid || r.Error != "checksum mismatch" {
		t.Fatalf("stale plugin not flagged: %+v", r)
	}
	if r := byName["missing"]; r.BinaryReachable || r.Error == "" {
		t.Fatalf("missing binary not flagged: %+v", r)
	}
}
