package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"actograph/internal/modules/plugin/dto"
	pluginin "actograph/internal/modules/plugin/port/in"
	"actograph/internal/modules/plugin/service"
	reportin "actograph/internal/modules/report/port/in"
	workspacein "actograph/internal/modules/workspace/port/in"
)

type Interactor struct {
	svc       *service.PluginService
	workspace workspacein.Usecase
	report    reportin.Usecase
}

func NewInteractor(svc *service.PluginService, workspace workspacein.Usecase, report reportin.Usecase) pluginin.Usecase {
	return &Interactor{svc: svc, workspace: workspace, report: report}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) ListCommands(ctx context.Context, pluginName string) ([]dto.CommandInfo, error) {
	return i.svc.ListCommands(ctx, pluginName)
}

func (i *Interactor) Execute(ctx context.Context, input dto.ExecuteInput) (dto.ExecuteOutput, error) {
	return i.svc.Execute(ctx, input)
}

func (i *Interactor) Analyze(ctx context.Context, input dto.ExecuteInput) (dto.ExecuteOutput, error) {
	return i.svc.Analyze(ctx, input)
}

// RenderReport assembles the session snapshot and its aggregate stats into
// the plugin input payload, then runs the render command.
func (i *Interactor) RenderReport(ctx context.Context, input dto.RenderReportInput) (dto.ExecuteOutput, error) {
	snapshot, err := i.workspace.Export(ctx, input.SessionID)
	if err != nil {
		return dto.ExecuteOutput{}, fmt.Errorf("export session: %w", err)
	}
	summary, err := i.report.Summary(ctx, input.SessionID)
	if err != nil {
		return dto.ExecuteOutput{}, fmt.Errorf("summarize session: %w", err)
	}

	stats := make([]reportStat, 0, len(summary.Stats))
	for _, s := range summary.Stats {
		stats = append(stats, reportStat{
			ActivityID:    s.ActivityID,
			Name:          s.Name,
			ColorTag:      s.ColorTag,
			DurationMS:    s.DurationMS,
			Count:         s.Count,
			Percentage:    s.Percentage,
			AvgDurationMS: s.AvgDurationMS,
		})
	}
	payload, err := json.Marshal(reportPayload{
		Snapshot: json.RawMessage(snapshot),
		Summary: reportSummary{
			SessionID:       summary.SessionID,
			SessionName:     summary.SessionName,
			TotalDurationMS: summary.TotalDurationMS,
			OpenCount:       summary.OpenCount,
			Stats:           stats,
		},
	})
	if err != nil {
		return dto.ExecuteOutput{}, fmt.Errorf("marshal report payload: %w", err)
	}

	return i.svc.Execute(ctx, dto.ExecuteInput{
		PluginName:    input.PluginName,
		CommandID:     input.CommandID,
		InputJSON:     string(payload),
		SessionID:     summary.SessionID,
		WorkspacePath: input.WorkspacePath,
		Cwd:           input.Cwd,
	})
}

type reportPayload struct {
	Snapshot json.RawMessage `json:"snapshot"`
	Summary  reportSummary   `json:"summary"`
}

type reportSummary struct {
	SessionID       string       `json:"sessionId"`
	SessionName     string       `json:"sessionName"`
	TotalDurationMS int64        `json:"totalDurationMs"`
	OpenCount       int          `json:"openCount"`
	Stats           []reportStat `json:"stats"`
}

type reportStat struct {
	ActivityID    string  `json:"activityId"`
	Name          string  `json:"name"`
	ColorTag      string  `json:"colorTag"`
	DurationMS    int64   `json:"durationMs"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
	AvgDurationMS int64   `json:"avgDurationMs"`
}
