package in

import (
	"context"

	"actograph/internal/modules/report/dto"
	reportin "actograph/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context, sessionID string) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx, sessionID)
}

func (h CLIHandler) Timeline(ctx context.Context, sessionID string, bucketMS int64) (dto.TimelineOutput, error) {
	return h.usecase.Timeline(ctx, sessionID, bucketMS)
}
