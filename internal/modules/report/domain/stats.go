package domain

// Event is the read-only view of a logged activity event that analytics
// consumes. A nil duration marks an unfinished (open) event; it contributes
// to counts but never to durations.
type Event struct {
	ActivityID   string
	ActivityName string
	TimestampMS  int64
	DurationMS   *int64
}

type Activity struct {
	ID       string
	Name     string
	ColorTag string
}

type ActivityStat struct {
	ActivityID    string
	Name          string
	ColorTag      string
	DurationMS    int64
	Count         int
	Percentage    float64
	AvgDurationMS int64
}

type Summary struct {
	TotalDurationMS int64
	OpenCount       int
	Stats           []ActivityStat
}

// Summarize aggregates per-activity totals over one session's event log.
// Percentages are shares of the session's total closed duration; activities
// that never occur are omitted.
func Summarize(events []Event, activities []Activity) Summary {
	summary := Summary{}
	for _, event := range events {
		if event.DurationMS == nil {
			summary.OpenCount++
			continue
		}
		summary.TotalDurationMS += *event.DurationMS
	}
	for _, activity := range activities {
		stat := ActivityStat{ActivityID: activity.ID, Name: activity.Name, ColorTag: activity.ColorTag}
		for _, event := range events {
			if event.ActivityID != activity.ID {
				continue
			}
			stat.Count++
			if event.DurationMS != nil {
				stat.DurationMS += *event.DurationMS
			}
		}
		if stat.Count == 0 {
			continue
		}
		if summary.TotalDurationMS > 0 {
			stat.Percentage = float64(stat.DurationMS) / float64(summary.TotalDurationMS) * 100
		}
		stat.AvgDurationMS = stat.DurationMS / int64(stat.Count)
		summary.Stats = append(summary.Stats, stat)
	}
	return summary
}

const DefaultBucketMS = 5 * 60 * 1000

type TimelineBucket struct {
	StartMS       int64
	EndMS         int64
	PerActivityMS map[string]int64
}

// Timeline splits the span of the event log into fixed buckets and charges
// each activity with the overlap of its closed events' [start, end)
// intervals against each bucket's [start, end) interval. Open events widen
// the span but carry no time.
func Timeline(events []Event, activities []Activity, bucketMS int64) []TimelineBucket {
	if len(events) == 0 || bucketMS <= 0 {
		return nil
	}
	first := events[0].TimestampMS
	last := events[0].TimestampMS
	for _, event := range events {
		if event.TimestampMS < first {
			first = event.TimestampMS
		}
		end := event.TimestampMS
		if event.DurationMS != nil {
			end += *event.DurationMS
		}
		if end > last {
			last = end
		}
	}
	span := last - first
	if span <= 0 {
		return nil
	}
	bucketCount := int((span + bucketMS - 1) / bucketMS)

	buckets := make([]TimelineBucket, 0, bucketCount)
	for i := 0; i < bucketCount; i++ {
		bucket := TimelineBucket{
			StartMS:       first + int64(i)*bucketMS,
			EndMS:         first + int64(i+1)*bucketMS,
			PerActivityMS: map[string]int64{},
		}
		for _, activity := range activities {
			var total int64
			for _, event := range events {
				if event.ActivityID != activity.ID || event.DurationMS == nil {
					continue
				}
				total += overlap(event.TimestampMS, event.TimestampMS+*event.DurationMS, bucket.StartMS, bucket.EndMS)
			}
			bucket.PerActivityMS[activity.ID] = total
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func overlap(aStart, aEnd, bStart, bEnd int64) int64 {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}
