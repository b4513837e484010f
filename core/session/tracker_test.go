package session

import (
	"sync"
	"testing"
	"time"
)

func TestTracker_Start(t *testing.T) {
	tracker := NewTracker(time.Second)

	st, err := tracker.Start("CS101", "")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !st.Active {
		t.Error("Start() session not active")
	}
	if st.SessionName != "CS101_session" {
		t.Errorf("Start() SessionName = %q, want %q", st.SessionName, "CS101_session")
	}
	if st.StartedAt == nil || st.StartedAt.IsZero() {
		t.Error("Start() StartedAt not set")
	}

	// one active session per class
	if _, err = tracker.Start("CS101", "again"); err != ErrAlreadyActive {
		t.Errorf("Start() error = %v, want %v", err, ErrAlreadyActive)
	}

	// other classes are unaffected
	st, err = tracker.Start("CS102", "algebra")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if st.SessionName != "algebra" {
		t.Errorf("Start() SessionName = %q, want %q", st.SessionName, "algebra")
	}
}

func TestTracker_Stop(t *testing.T) {
	tracker := NewTracker(time.Second)

	if _, err := tracker.Stop("CS101"); err != ErrNoActiveSession {
		t.Errorf("Stop() error = %v, want %v", err, ErrNoActiveSession)
	}

	if _, err := tracker.Start("CS101", "algebra"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err := tracker.Record("CS101", []string{"jane", "john"}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	summary, err := tracker.Stop("CS101")
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if summary.ClassID != "CS101" || summary.SessionName != "algebra" {
		t.Errorf("Stop() summary = %+v", summary)
	}
	if summary.EndedAt.Before(summary.StartedAt) {
		t.Error("Stop() EndedAt before StartedAt")
	}
	if len(summary.Presence) != 2 {
		t.Errorf("Stop() len(Presence) = %d, want 2", len(summary.Presence))
	}

	// stopping clears the state
	if _, err = tracker.Stop("CS101"); err != ErrNoActiveSession {
		t.Errorf("Stop() error = %v, want %v", err, ErrNoActiveSession)
	}
	if st := tracker.Status("CS101"); st.Active {
		t.Error("Status() still active after Stop()")
	}
}

func TestTracker_Restore(t *testing.T) {
	tracker := NewTracker(time.Second)

	if _, err := tracker.Start("CS101", "algebra"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err := tracker.Record("CS101", []string{"jane"}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	summary, err := tracker.Stop("CS101")
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	tracker.Restore(summary)

	st := tracker.Status("CS101")
	if !st.Active || st.SessionName != "algebra" {
		t.Errorf("Status() after Restore() = %+v", st)
	}
	if st.StartedAt == nil || !st.StartedAt.Equal(summary.StartedAt) {
		t.Errorf("Status() StartedAt = %v, want %v", st.StartedAt, summary.StartedAt)
	}

	// accumulated presence survives and keeps accumulating
	presence, err := tracker.Record("CS101", []string{"jane"})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if presence["jane"] != 2*time.Second {
		t.Errorf("Record() presence[jane] = %v, want %v", presence["jane"], 2*time.Second)
	}

	// a restored session can be stopped again
	summary, err = tracker.Stop("CS101")
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if summary.Presence["jane"] != 2*time.Second {
		t.Errorf("Stop() Presence[jane] = %v, want %v", summary.Presence["jane"], 2*time.Second)
	}

	// Restore never clobbers a newer active session
	if _, err = tracker.Start("CS101", "geometry"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	tracker.Restore(summary)
	if st = tracker.Status("CS101"); st.SessionName != "geometry" {
		t.Errorf("Status() SessionName = %q, want %q", st.SessionName, "geometry")
	}
}

func TestTracker_Record(t *testing.T) {
	tracker := NewTracker(time.Second)

	if _, err := tracker.Record("CS101", []string{"jane"}); err != ErrNoActiveSession {
		t.Errorf("Record() error = %v, want %v", err, ErrNoActiveSession)
	}

	if _, err := tracker.Start("CS101", ""); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	presence, err := tracker.Record("CS101", []string{"jane", "Unknown", "john"})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if len(presence) != 2 {
		t.Errorf("Record() len(presence) = %d, want 2 (Unknown ignored)", len(presence))
	}
	if presence["jane"] != time.Second {
		t.Errorf("Record() presence[jane] = %v, want %v", presence["jane"], time.Second)
	}

	// presence accumulates one step per sighting
	presence, err = tracker.Record("CS101", []string{"jane"})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if presence["jane"] != 2*time.Second {
		t.Errorf("Record() presence[jane] = %v, want %v", presence["jane"], 2*time.Second)
	}
	if presence["john"] != time.Second {
		t.Errorf("Record() presence[john] = %v, want %v", presence["john"], time.Second)
	}
}

func TestTracker_Status(t *testing.T) {
	tracker := NewTracker(time.Second)

	st := tracker.Status("CS101")
	if st.Active {
		t.Error("Status() active for unknown class")
	}
	if st.ClassID != "CS101" {
		t.Errorf("Status() ClassID = %q, want %q", st.ClassID, "CS101")
	}
	if st.StartedAt != nil {
		t.Errorf("Status() StartedAt = %v, want nil for inactive class", st.StartedAt)
	}

	if _, err := tracker.Start("CS101", "algebra"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	st = tracker.Status("CS101")
	if !st.Active || st.SessionName != "algebra" {
		t.Errorf("Status() = %+v", st)
	}

	tracker.Clear("CS101")
	if st = tracker.Status("CS101"); st.Active {
		t.Error("Status() still active after Clear()")
	}
}

func TestTracker_concurrency(t *testing.T) {
	tracker := NewTracker(time.Second)
	if _, err := tracker.Start("CS101", ""); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.Record("CS101", []string{"jane"})
			_ = tracker.Status("CS101")
		}()
	}
	wg.Wait()

	summary, err := tracker.Stop("CS101")
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if summary.Presence["jane"] != 50*time.Second {
		t.Errorf("Presence[jane] = %v, want %v", summary.Presence["jane"], 50*time.Second)
	}
}
