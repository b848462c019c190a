package domain

import (
	"fmt"
	"strings"
)

const SnapshotVersion = "1.0"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

func (s Status) Validate() error {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusArchived:
		return nil
	default:
		return fmt.Errorf("unknown session status: %s", s)
	}
}

// ActivityEvent is one timestamped occurrence of an activity inside a
// session. An event without a duration is open; the event log allows at most
// one open event per session and it is always the last one appended.
type ActivityEvent struct {
	ID           string `json:"id"`
	SessionID    string `json:"sessionId"`
	ActivityID   string `json:"activityId"`
	ActivityName string `json:"activityName"`
	Timestamp    int64  `json:"timestamp"`
	Duration     *int64 `json:"duration,omitempty"`
}

func (e ActivityEvent) Open() bool {
	return e.Duration == nil
}

// End reports the end of the closed interval [Timestamp, End). Open events
// have no end yet and report their start.
func (e ActivityEvent) End() int64 {
	if e.Duration == nil {
		return e.Timestamp
	}
	return e.Timestamp + *e.Duration
}

func (e ActivityEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.SessionID == "" {
		return fmt.Errorf("event session id is required")
	}
	if e.ActivityID == "" {
		return fmt.Errorf("event activity id is required")
	}
	if e.Duration != nil && *e.Duration < 0 {
		return fmt.Errorf("event duration must be non-negative, got %d", *e.Duration)
	}
	return nil
}

type Session struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
	Events    []ActivityEvent `json:"events"`
	VideoRef  string          `json:"videoRef,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Status    Status          `json:"status"`
}

func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("session name is required")
	}
	if s.UpdatedAt < s.CreatedAt {
		return fmt.Errorf("session updated_at precedes created_at")
	}
	if err := s.Status.Validate(); err != nil {
		return err
	}
	for i, event := range s.Events {
		if err := event.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if event.SessionID != s.ID {
			return fmt.Errorf("event %d belongs to session %s, not %s", i, event.SessionID, s.ID)
		}
		if event.Open() && i != len(s.Events)-1 {
			return fmt.Errorf("open event %s is not last in the log", event.ID)
		}
	}
	return nil
}

// OpenEvent returns the session's open event, if any. By construction it can
// only be the last element of the log.
func (s *Session) OpenEvent() *ActivityEvent {
	if len(s.Events) == 0 {
		return nil
	}
	last := &s.Events[len(s.Events)-1]
	if last.Open() {
		return last
	}
	return nil
}

// CloseOpenEvent assigns a duration to the open event, if one exists.
// Negative durations are clamped to zero so a regressing wall clock can
// never produce an invalid log.
func (s *Session) CloseOpenEvent(durationMS, nowMS int64) (ActivityEvent, bool) {
	open := s.OpenEvent()
	if open == nil {
		return ActivityEvent{}, false
	}
	if durationMS < 0 {
		durationMS = 0
	}
	open.Duration = &durationMS
	s.Touch(nowMS)
	return *open, true
}

// AppendOpenEvent appends a fresh open event. The caller must have closed
// any previous open event first; appending over an open event would break
// the one-open-event invariant.
func (s *Session) AppendOpenEvent(event ActivityEvent, nowMS int64) error {
	if open := s.OpenEvent(); open != nil {
		return fmt.Errorf("session %s already has open event %s", s.ID, open.ID)
	}
	event.SessionID = s.ID
	if err := event.Validate(); err != nil {
		return err
	}
	if !event.Open() {
		return fmt.Errorf("appended event %s must be open", event.ID)
	}
	s.Events = append(s.Events, event)
	s.Touch(nowMS)
	return nil
}

// TotalDuration sums the durations of all closed events.
func (s *Session) TotalDuration() int64 {
	var total int64
	for _, event := range s.Events {
		if event.Duration != nil {
			total += *event.Duration
		}
	}
	return total
}

func (s *Session) Touch(nowMS int64) {
	if nowMS > s.UpdatedAt {
		s.UpdatedAt = nowMS
	}
}

// Clone deep-copies the session so callers can mutate or roll back without
// sharing event slices.
func (s Session) Clone() Session {
	out := s
	out.Events = make([]ActivityEvent, len(s.Events))
	for i, event := range s.Events {
		out.Events[i] = event
		if event.Duration != nil {
			d := *event.Duration
			out.Events[i].Duration = &d
		}
	}
	return out
}
