package domain

import "fmt"

type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeLogging Mode = "logging"
)

func (m Mode) Validate() error {
	switch m {
	case ModeIdle, ModeLogging:
		return nil
	default:
		return fmt.Errorf("unknown tracking mode: %s", m)
	}
}

// TrackingState is the logbook side of the tracker: which session is being
// observed, which event is currently open, and the stopwatch feeding its
// eventual duration. Idle means no open event is being timed.
type TrackingState struct {
	Mode         Mode      `json:"mode"`
	SessionID    string    `json:"session_id,omitempty"`
	OpenEventID  string    `json:"open_event_id,omitempty"`
	ActivityID   string    `json:"activity_id,omitempty"`
	ActivityName string    `json:"activity_name,omitempty"`
	Stopwatch    Stopwatch `json:"stopwatch"`
}

func NewTrackingState() TrackingState {
	return TrackingState{Mode: ModeIdle}
}

func (t TrackingState) Logging() bool {
	return t.Mode == ModeLogging && t.OpenEventID != ""
}

func (t TrackingState) Validate() error {
	if t.Mode == "" {
		return nil
	}
	if err := t.Mode.Validate(); err != nil {
		return err
	}
	if t.Mode == ModeLogging {
		if t.SessionID == "" {
			return fmt.Errorf("logging state requires a session id")
		}
		if t.OpenEventID == "" {
			return fmt.Errorf("logging state requires an open event id")
		}
	}
	return nil
}

// BeginLogging points the tracker at a freshly opened event and restarts the
// stopwatch from zero.
func (t *TrackingState) BeginLogging(sessionID, eventID, activityID, activityName string, nowMS int64) {
	t.Mode = ModeLogging
	t.SessionID = sessionID
	t.OpenEventID = eventID
	t.ActivityID = activityID
	t.ActivityName = activityName
	t.Stopwatch.Reset()
	t.Stopwatch.Start(nowMS)
}

// EndLogging returns to Idle, pausing the stopwatch at its final reading.
func (t *TrackingState) EndLogging(nowMS int64) {
	t.Stopwatch.Pause(nowMS)
	t.Mode = ModeIdle
	t.OpenEventID = ""
	t.ActivityID = ""
	t.ActivityName = ""
}

// ResetFor discards the logbook and stopwatch, rebinding the tracker to the
// given session. Any event left open stays open in its session's log.
func (t *TrackingState) ResetFor(sessionID string) {
	*t = TrackingState{Mode: ModeIdle, SessionID: sessionID}
}
