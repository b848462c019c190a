package service

import (
	"time"

	"actograph/internal/modules/report/domain"
	"actograph/internal/modules/report/dto"
)

// ReportService turns raw event snapshots into the aggregate views the CLI,
// TUI and plugins render. It holds no state of its own.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

func (s *ReportService) Summarize(events []domain.Event, activities []domain.Activity) dto.SummaryOutput {
	summary := domain.Summarize(events, activities)
	out := dto.SummaryOutput{
		TotalDurationMS: summary.TotalDurationMS,
		OpenCount:       summary.OpenCount,
	}
	for _, stat := range summary.Stats {
		out.Stats = append(out.Stats, dto.ActivityStatOutput{
			ActivityID:    stat.ActivityID,
			Name:          stat.Name,
			ColorTag:      stat.ColorTag,
			DurationMS:    stat.DurationMS,
			Count:         stat.Count,
			Percentage:    stat.Percentage,
			AvgDurationMS: stat.AvgDurationMS,
		})
	}
	return out
}

func (s *ReportService) Timeline(events []domain.Event, activities []domain.Activity, bucketMS int64) []dto.TimelineBucketOutput {
	if bucketMS <= 0 {
		bucketMS = domain.DefaultBucketMS
	}
	buckets := domain.Timeline(events, activities, bucketMS)
	out := make([]dto.TimelineBucketOutput, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, dto.TimelineBucketOutput{
			Label:         time.UnixMilli(bucket.StartMS).UTC().Format("15:04"),
			StartMS:       bucket.StartMS,
			EndMS:         bucket.EndMS,
			PerActivityMS: bucket.PerActivityMS,
		})
	}
	return out
}
