package dto

type EventRef struct {
	ID           string
	ActivityID   string
	ActivityName string
	TimestampMS  int64
	DurationMS   *int64
}

type LogOutput struct {
	SessionID string
	Closed    *EventRef
	Opened    EventRef
}

type StopOutput struct {
	SessionID string
	Stopped   bool
	Closed    *EventRef
}

type StatusOutput struct {
	Mode         string
	SessionID    string
	SessionName  string
	OpenEventID  string
	ActivityID   string
	ActivityName string
	ElapsedMS    int64
	Running      bool
}
