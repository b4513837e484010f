package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
)

var (
	ErrAlreadyActive  = errors.New("a session is already active for this class")
	ErrNoActiveSession = errors.New("no active session")
)

type (
	// classState is the live state of one class while its session is open.
	classState struct {
		active      bool
		sessionName string
		startedAt   time.Time
		// presence accumulated per student ID, credited one step per sighting
		presence map[string]time.Duration
	}

	// Summary is the outcome of a stopped session, before persistence.
	Summary struct {
		ClassID     string
		SessionName string
		StartedAt   time.Time
		EndedAt     time.Time
		Duration    time.Duration
		Presence    map[string]time.Duration
	}

	// Status reports whether a class session is currently open.
	Status struct {
		ClassID     string     `json:"classId"`
		Active      bool       `json:"sessionActive"`
		SessionName string     `json:"sessionName,omitempty"`
		StartedAt   *time.Time `json:"startTime,omitempty"`
	}

	// Tracker holds the open sessions of all classes in memory.
	// Attendance only accumulates between Start and Stop; everything else
	// about a session is persisted by the Service on Stop.
	Tracker struct {
		mu      sync.Mutex
		step    time.Duration
		classes map[string]*classState
	}
)

func NewTracker(step time.Duration) *Tracker {
	if step <= 0 {
		step = time.Second
	}
	return &Tracker{
		step:    step,
		classes: make(map[string]*classState),
	}
}

// Start opens a session for classID. At most one session may be active per
// class; starting twice returns ErrAlreadyActive.
func (t *Tracker) Start(classID, sessionName string) (Status, error) {
	if sessionName == "" {
		sessionName = classID + "_session"
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if st := t.classes[classID]; st != nil && st.active {
		return Status{}, ErrAlreadyActive
	}
	st := &classState{
		active:      true,
		sessionName: sessionName,
		startedAt:   time.Now().UTC(),
		presence:    make(map[string]time.Duration),
	}
	t.classes[classID] = st
	return t.status(classID, st), nil
}

// Stop closes the class session and returns its summary.
func (t *Tracker) Stop(classID string) (Summary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.classes[classID]
	if st == nil || !st.active {
		return Summary{}, ErrNoActiveSession
	}
	endedAt := time.Now().UTC()
	summary := Summary{
		ClassID:     classID,
		SessionName: st.sessionName,
		StartedAt:   st.startedAt,
		EndedAt:     endedAt,
		Duration:    endedAt.Sub(st.startedAt),
		Presence:    st.presence,
	}
	delete(t.classes, classID)
	return summary, nil
}

// Restore reopens a class session from its summary, keeping the
// accumulated presence. It is a no-op when a newer session is already
// active for the class.
func (t *Tracker) Restore(s Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st := t.classes[s.ClassID]; st != nil && st.active {
		return
	}
	presence := s.Presence
	if presence == nil {
		presence = make(map[string]time.Duration)
	}
	t.classes[s.ClassID] = &classState{
		active:      true,
		sessionName: s.SessionName,
		startedAt:   s.StartedAt,
		presence:    presence,
	}
}

// Record credits one presence step to each sighted student of an active
// class session. Unmatched ("Unknown") sightings are ignored.
func (t *Tracker) Record(classID string, studentIDs []string) (map[string]time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.classes[classID]
	if st == nil || !st.active {
		return nil, ErrNoActiveSession
	}
	for _, id := range studentIDs {
		if id != core.UnknownFace {
			st.presence[id] += t.step
		}
	}
	updated := make(map[string]time.Duration, len(st.presence))
	for id, d := range st.presence {
		updated[id] = d
	}
	return updated, nil
}

// Status never errors: an unknown class simply reports inactive.
func (t *Tracker) Status(classID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.classes[classID]
	if st == nil {
		return Status{ClassID: classID}
	}
	return t.status(classID, st)
}

// Clear drops any state for classID, active or not.
func (t *Tracker) Clear(classID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.classes, classID)
}

func (t *Tracker) status(classID string, st *classState) Status {
	startedAt := st.startedAt
	return Status{
		ClassID:     classID,
		Active:      st.active,
		SessionName: st.sessionName,
		StartedAt:   &startedAt,
	}
}
