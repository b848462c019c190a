package domain

// Workspace is the single in-process owner of all sessions and of the
// current-session selection. It is constructed explicitly at bootstrap and
// handed to whoever needs it; there is no package-level instance.
type Workspace struct {
	order     []string
	sessions  map[string]*Session
	CurrentID string
}

func NewWorkspace() *Workspace {
	return &Workspace{sessions: map[string]*Session{}}
}

func (w *Workspace) Len() int {
	return len(w.order)
}

func (w *Workspace) Get(id string) (*Session, bool) {
	s, ok := w.sessions[id]
	return s, ok
}

// Current returns the selected session, or nil when none is selected. A
// non-empty CurrentID always references an existing session.
func (w *Workspace) Current() *Session {
	if w.CurrentID == "" {
		return nil
	}
	return w.sessions[w.CurrentID]
}

// Add inserts a session, preserving insertion order for listings.
func (w *Workspace) Add(s *Session) bool {
	if _, ok := w.sessions[s.ID]; ok {
		return false
	}
	w.sessions[s.ID] = s
	w.order = append(w.order, s.ID)
	return true
}

// Remove deletes a session and its events. When the removed session was
// current, selection falls back to another remaining session if any.
func (w *Workspace) Remove(id string) (*Session, bool) {
	s, ok := w.sessions[id]
	if !ok {
		return nil, false
	}
	delete(w.sessions, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.CurrentID == id {
		w.CurrentID = ""
		if len(w.order) > 0 {
			w.CurrentID = w.order[0]
		}
	}
	return s, true
}

// Restore undoes a Remove, reinserting the session at the given position.
func (w *Workspace) Restore(s *Session, position int, currentID string) {
	w.sessions[s.ID] = s
	if position < 0 || position > len(w.order) {
		position = len(w.order)
	}
	w.order = append(w.order[:position], append([]string{s.ID}, w.order[position:]...)...)
	w.CurrentID = currentID
}

func (w *Workspace) Position(id string) int {
	for i, existing := range w.order {
		if existing == id {
			return i
		}
	}
	return -1
}

// Sessions lists sessions in insertion order.
func (w *Workspace) Sessions() []*Session {
	out := make([]*Session, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.sessions[id])
	}
	return out
}
