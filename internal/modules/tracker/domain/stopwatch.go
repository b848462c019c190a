package domain

// Stopwatch accumulates running time across pause/resume cycles. It is pure
// state plus arithmetic: callers feed it wall-clock milliseconds, so elapsed
// time is independent of where the readings come from.
type Stopwatch struct {
	Running       bool  `json:"running"`
	ElapsedMS     int64 `json:"elapsed_ms"`
	StartedAtWall int64 `json:"started_at_wall,omitempty"`
}

// Start begins or resumes counting. Already-accumulated time is kept as the
// baseline, so the displayed value climbs from where it left off. Starting a
// running stopwatch is a no-op.
func (s *Stopwatch) Start(nowMS int64) {
	if s.Running {
		return
	}
	s.Running = true
	s.StartedAtWall = nowMS
}

// Pause folds the active interval into the baseline. Pausing a paused
// stopwatch is a no-op.
func (s *Stopwatch) Pause(nowMS int64) {
	if !s.Running {
		return
	}
	delta := nowMS - s.StartedAtWall
	if delta > 0 {
		s.ElapsedMS += delta
	}
	s.Running = false
	s.StartedAtWall = 0
}

func (s *Stopwatch) Reset() {
	*s = Stopwatch{}
}

// ElapsedAt reads elapsed time without mutating state. A wall clock that
// regressed below the start point reads as no additional time.
func (s Stopwatch) ElapsedAt(nowMS int64) int64 {
	if !s.Running {
		return s.ElapsedMS
	}
	delta := nowMS - s.StartedAtWall
	if delta < 0 {
		delta = 0
	}
	return s.ElapsedMS + delta
}
