package dto

type CreateSessionInput struct {
	Name string
}

type SessionOutput struct {
	ID              string
	Name            string
	CreatedAt       int64
	UpdatedAt       int64
	Status          string
	EventCount      int
	TotalDurationMS int64
	HasOpenEvent    bool
	VideoRef        string
	Notes           string
	Current         bool
}

type EventOutput struct {
	ID           string
	SessionID    string
	ActivityID   string
	ActivityName string
	TimestampMS  int64
	DurationMS   *int64
}

type SessionDetailOutput struct {
	SessionOutput
	Events []EventOutput
}

type ActivityOutput struct {
	ID          string
	Name        string
	ColorTag    string
	Description string
}

type AddActivityInput struct {
	ID          string
	Name        string
	ColorTag    string
	Description string
}

type SetNotesInput struct {
	SessionID string
	Notes     string
}

type SetVideoInput struct {
	SessionID string
	VideoRef  string
}

type SetStatusInput struct {
	SessionID string
	Status    string
}

// LogEventInput records an activity switch: close the session's open event
// with the supplied duration (when one is open) and append a fresh open
// event for the given activity.
type LogEventInput struct {
	SessionID       string
	ActivityID      string
	CloseDurationMS *int64
}

type LogEventOutput struct {
	Closed *EventOutput
	Opened EventOutput
}

type CloseEventInput struct {
	SessionID  string
	DurationMS int64
}

type CloseEventOutput struct {
	Closed *EventOutput
}
