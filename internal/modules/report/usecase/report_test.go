package usecase_test

import (
	"context"
	"errors"
	"testing"

	"actograph/internal/modules/report/service"
	"actograph/internal/modules/report/usecase"
	wsdto "actograph/internal/modules/workspace/dto"
	apperrors "actograph/internal/platform/errors"
)

func ptr(v int64) *int64 { return &v }

// fakeWorkspace serves a single canned session detail; Current and Get both
// resolve to it.
type fakeWorkspace struct {
	detail     wsdto.SessionDetailOutput
	activities []wsdto.ActivityOutput
	currentErr error
}

func (f *fakeWorkspace) Create(context.Context, wsdto.CreateSessionInput) (wsdto.SessionOutput, error) {
	return wsdto.SessionOutput{}, nil
}
func (f *fakeWorkspace) List(context.Context) ([]wsdto.SessionOutput, error) { return nil, nil }
func (f *fakeWorkspace) Get(context.Context, string) (wsdto.SessionDetailOutput, error) {
	return f.detail, nil
}
func (f *fakeWorkspace) Current(context.Context) (wsdto.SessionDetailOutput, error) {
	if f.currentErr != nil {
		return wsdto.SessionDetailOutput{}, f.currentErr
	}
	return f.detail, nil
}
func (f *fakeWorkspace) Load(context.Context, string) (wsdto.SessionOutput, error) {
	return wsdto.SessionOutput{}, nil
}
func (f *fakeWorkspace) Delete(context.Context, string) error { return nil }
func (f *fakeWorkspace) SetNotes(context.Context, wsdto.SetNotesInput) (wsdto.SessionOutput, error) {
	return wsdto.SessionOutput{}, nil
}
func (f *fakeWorkspace) SetVideo(context.Context, wsdto.SetVideoInput) (wsdto.SessionOutput, error) {
	return wsdto.SessionOutput{}, nil
}
func (f *fakeWorkspace) SetStatus(context.Context, wsdto.SetStatusInput) (wsdto.SessionOutput, error) {
	return wsdto.SessionOutput{}, nil
}
func (f *fakeWorkspace) Export(context.Context, string) ([]byte, error) { return nil, nil }
func (f *fakeWorkspace) Import(context.Context, []byte) (wsdto.SessionOutput, error) {
	return wsdto.SessionOutput{}, nil
}
func (f *fakeWorkspace) WriteNote(context.Context, string) (string, error) { return "", nil }
func (f *fakeWorkspace) ListActivities(context.Context) ([]wsdto.ActivityOutput, error) {
	return f.activities, nil
}
func (f *fakeWorkspace) AddActivity(context.Context, wsdto.AddActivityInput) (wsdto.ActivityOutput, error) {
	return wsdto.ActivityOutput{}, nil
}
func (f *fakeWorkspace) LogEvent(context.Context, wsdto.LogEventInput) (wsdto.LogEventOutput, error) {
	return wsdto.LogEventOutput{}, nil
}
func (f *fakeWorkspace) CloseOpenEvent(context.Context, wsdto.CloseEventInput) (wsdto.CloseEventOutput, error) {
	return wsdto.CloseEventOutput{}, nil
}

func studyWorkspace() *fakeWorkspace {
	detail := wsdto.SessionDetailOutput{
		SessionOutput: wsdto.SessionOutput{ID: "sess-1", Name: "Line study"},
		Events: []wsdto.EventOutput{
			{ID: "evt-1", SessionID: "sess-1", ActivityID: "preparation", ActivityName: "Preparation", TimestampMS: 0, DurationMS: ptr(120000)},
			{ID: "evt-2", SessionID: "sess-1", ActivityID: "main-task", ActivityName: "Main task", TimestampMS: 120000, DurationMS: ptr(380000)},
			{ID: "evt-3", SessionID: "sess-1", ActivityID: "break", ActivityName: "Break", TimestampMS: 500000},
		},
	}
	return &fakeWorkspace{
		detail: detail,
		activities: []wsdto.ActivityOutput{
			{ID: "preparation", Name: "Preparation", ColorTag: "blue"},
			{ID: "main-task", Name: "Main task", ColorTag: "green"},
			{ID: "break", Name: "Break", ColorTag: "amber"},
		},
	}
}

func TestSummaryResolvesCurrentSession(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewReportService(), studyWorkspace())

	summary, err := uc.Summary(context.Background(), "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.SessionID != "sess-1" || summary.SessionName != "Line study" {
		t.Fatalf("summary must name the resolved session, got %+v", summary)
	}
	if summary.TotalDurationMS != 500000 || summary.OpenCount != 1 {
		t.Fatalf("unexpected totals: total=%d open=%d", summary.TotalDurationMS, summary.OpenCount)
	}
	if len(summary.Stats) != 3 {
		t.Fatalf("expected 3 activity stats, got %d", len(summary.Stats))
	}
	if summary.Stats[0].ColorTag != "blue" {
		t.Fatalf("stats must carry the catalog color tag, got %q", summary.Stats[0].ColorTag)
	}
}

func TestSummaryPropagatesNoActiveSession(t *testing.T) {
	t.Parallel()
	ws := studyWorkspace()
	ws.currentErr = apperrors.ErrNoActiveSession
	uc := usecase.NewInteractor(service.NewReportService(), ws)

	if _, err := uc.Summary(context.Background(), ""); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestTimelineDefaultsTheBucketWidth(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewReportService(), studyWorkspace())

	timeline, err := uc.Timeline(context.Background(), "sess-1", 0)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if timeline.BucketMS != 300000 {
		t.Fatalf("expected 5 minute default bucket, got %d", timeline.BucketMS)
	}
	if len(timeline.Buckets) != 2 {
		t.Fatalf("expected 2 buckets over the closed span, got %d", len(timeline.Buckets))
	}
	if timeline.Buckets[0].Label == "" {
		t.Fatalf("buckets must carry a clock label")
	}
	if got := timeline.Buckets[1].PerActivityMS["main-task"]; got != 200000 {
		t.Fatalf("bucket 1 main-task: want 200000, got %d", got)
	}
}
