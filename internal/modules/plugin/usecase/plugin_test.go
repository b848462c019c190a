package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	pluginadapter "actograph/internal/modules/plugin/adapter/out"
	"actograph/internal/modules/plugin/domain"
	"actograph/internal/modules/plugin/dto"
	pluginin "actograph/internal/modules/plugin/port/in"
	"actograph/internal/modules/plugin/service"
	"actograph/internal/modules/plugin/usecase"
	reportservice "actograph/internal/modules/report/service"
	reportusecase "actograph/internal/modules/report/usecase"
	wsout "actograph/internal/modules/workspace/adapter/out"
	wsdto "actograph/internal/modules/workspace/dto"
	workspacein "actograph/internal/modules/workspace/port/in"
	wsservice "actograph/internal/modules/workspace/service"
	wsusecase "actograph/internal/modules/workspace/usecase"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type capturingHost struct {
	request *domain.ExecuteRequest
}

func (h *capturingHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }

func (h *capturingHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Capabilities: m.Capabilities}, nil
}

func (h *capturingHost) ListCommands(context.Context, domain.Manifest) ([]domain.CommandDescriptor, error) {
	return []domain.CommandDescriptor{{ID: "markdown", Kind: domain.CommandKindRender}}, nil
}

func (h *capturingHost) Execute(_ context.Context, _ domain.Manifest, req domain.ExecuteRequest) (domain.ExecuteResult, error) {
	h.request = &req
	return domain.ExecuteResult{Stdout: "# Report\n"}, nil
}

func installPlugin(t *testing.T, dir string) {
	t.Helper()
	pluginsDir := filepath.Join(dir, "plugins")
	if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
		t.Fatalf("mkdir plugins: %v", err)
	}
	binPath := filepath.Join(pluginsDir, "summary-bin")
	payload := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(binPath, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	manifests := []domain.Manifest{{
		Name:         "summary",
		Version:      "1.0.0",
		Binary:       binPath,
		SHA256:       hex.EncodeToString(sum[:]),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityRender},
	}}
	raw, err := json.Marshal(manifests)
	if err != nil {
		t.Fatalf("marshal manifests: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginsDir, "plugins.json"), raw, 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
}

func newRenderHarness(t *testing.T) (pluginin.Usecase, workspacein.Usecase, *capturingHost) {
	t.Helper()
	dir := t.TempDir()
	installPlugin(t, dir)

	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 9, 2, 0, 0, time.UTC),
	}}
	wsSvc := wsservice.NewWorkspaceService(
		clk,
		&seqID{},
		wsout.NewVaultSessionStore(dir),
		wsout.NewFileActivityCatalog(filepath.Join(dir, "activities.yaml")),
		wsout.NewFileStateStore(filepath.Join(dir, "state.json")),
		wsout.NewVaultNoteWriter(dir),
	)
	workspace := wsusecase.NewInteractor(wsSvc)
	report := reportusecase.NewInteractor(reportservice.NewReportService(), workspace)
	host := &capturingHost{}
	pluginSvc := service.NewPluginService(pluginadapter.NewFileManifestStore(dir), host)
	return usecase.NewInteractor(pluginSvc, workspace, report), workspace, host
}

func TestRenderReportAssemblesSnapshotAndSummary(t *testing.T) {
	t.Parallel()
	uc, workspace, host := newRenderHarness(t)
	ctx := context.Background()

	if _, err := workspace.Create(ctx, wsdto.CreateSessionInput{Name: "Packing line"}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := workspace.LogEvent(ctx, wsdto.LogEventInput{ActivityID: "main-task"}); err != nil {
		t.Fatalf("log event: %v", err)
	}
	if _, err := workspace.CloseOpenEvent(ctx, wsdto.CloseEventInput{DurationMS: 120000}); err != nil {
		t.Fatalf("close event: %v", err)
	}

	out, err := uc.RenderReport(ctx, dto.RenderReportInput{
		PluginName:    "summary",
		CommandID:     "markdown",
		WorkspacePath: "/tmp/ws",
		Cwd:           "/tmp",
	})
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	if out.Stdout != "# Report\n" {
		t.Fatalf("unexpected plugin output: %+v", out)
	}
	if host.request == nil {
		t.Fatalf("plugin host never executed")
	}

	var payload struct {
		Snapshot struct {
			Version string `json:"version"`
			Session struct {
				Name   string `json:"name"`
				Events []struct {
					ActivityID string `json:"activityId"`
				} `json:"events"`
			} `json:"session"`
		} `json:"snapshot"`
		Summary struct {
			SessionName     string `json:"sessionName"`
			TotalDurationMS int64  `json:"totalDurationMs"`
			OpenCount       int    `json:"openCount"`
			Stats           []struct {
				ActivityID string `json:"activityId"`
				DurationMS int64  `json:"durationMs"`
			} `json:"stats"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(host.request.InputJSON), &payload); err != nil {
		t.Fatalf("plugin input is not valid JSON: %v\n%s", err, host.request.InputJSON)
	}
	if payload.Snapshot.Version != "1.0" {
		t.Fatalf("snapshot must carry the export version, got %q", payload.Snapshot.Version)
	}
	if payload.Snapshot.Session.Name != "Packing line" || len(payload.Snapshot.Session.Events) != 1 {
		t.Fatalf("snapshot lost the session log: %+v", payload.Snapshot.Session)
	}
	if payload.Summary.SessionName != "Packing line" || payload.Summary.TotalDurationMS != 120000 {
		t.Fatalf("summary totals wrong: %+v", payload.Summary)
	}
	if len(payload.Summary.Stats) != 1 || payload.Summary.Stats[0].ActivityID != "main-task" {
		t.Fatalf("summary stats wrong: %+v", payload.Summary.Stats)
	}
}
