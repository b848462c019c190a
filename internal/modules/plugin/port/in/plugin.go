package in

import (
	"context"

	"actograph/internal/modules/plugin/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	ListCommands(ctx context.Context, pluginName string) ([]dto.CommandInfo, error)
	Execute(ctx context.Context, input dto.ExecuteInput) (dto.ExecuteOutput, error)
	Analyze(ctx context.Context, input dto.ExecuteInput) (dto.ExecuteOutput, error)
	RenderReport(ctx context.Context, input dto.RenderReportInput) (dto.ExecuteOutput, error)
}
