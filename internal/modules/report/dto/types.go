package dto

type ActivityStatOutput struct {
	ActivityID    string
	Name          string
	ColorTag      string
	DurationMS    int64
	Count         int
	Percentage    float64
	AvgDurationMS int64
}

type SummaryOutput struct {
	SessionID       string
	SessionName     string
	TotalDurationMS int64
	OpenCount       int
	Stats           []ActivityStatOutput
}

type TimelineBucketOutput struct {
	Label         string
	StartMS       int64
	EndMS         int64
	PerActivityMS map[string]int64
}

type TimelineOutput struct {
	SessionID   string
	SessionName string
	BucketMS    int64
	Buckets     []TimelineBucketOutput
}
