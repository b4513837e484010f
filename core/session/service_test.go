package session_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/session"
	"github.com/mahudhurio/backend/core/student"
	emailsvc "github.com/mahudhurio/backend/services/email"
	dummydb "github.com/mahudhurio/backend/storage/database/dummy"
	testutil "github.com/mahudhurio/backend/tests"
)

type testDeps struct {
	svc      *session.Service
	tracker  *session.Tracker
	sessRepo session.Repository
	attRepo  attendance.Repository
	stdRepo  student.Repository
	conf     *core.Config
}

func setup(t *testing.T) testDeps {
	t.Helper()
	conf := testutil.NewConfig()
	conf.ReportRecipients = []string{"teacher@test.cd"}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	sessRepo := dummydb.NewSessionRepository(db)
	attRepo := dummydb.NewAttendanceRepository(db)
	stdRepo := dummydb.NewStudentRepository(db)

	tracker := session.NewTracker(conf.Attendance.PresenceStep)
	attSvc := attendance.NewService(attRepo, nil, 0)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	emailsvc.ClearSentMessages()

	svc := session.NewService(tracker, sessRepo, attSvc, stdRepo, mailSvc, core.NopLogger{}, conf)
	return testDeps{svc: svc, tracker: tracker, sessRepo: sessRepo, attRepo: attRepo, stdRepo: stdRepo, conf: conf}
}

func TestService_RecordRecognition(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	jane := testutil.CreateStudent(t, deps.stdRepo, "Jane_Doe", "Jane Doe", "CS101")
	testutil.CreateStudent(t, deps.stdRepo, "John_Smith", "John Smith", "CS101")

	if _, err := deps.svc.Start(session.StartSession{ClassID: "CS101"}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// no sightings is a no-op
	presence, err := deps.svc.RecordRecognition(ctx, "CS101", nil)
	if err != nil {
		t.Fatalf("RecordRecognition() failed: %v", err)
	}
	if presence != nil {
		t.Errorf("RecordRecognition() presence = %v, want nil", presence)
	}

	// labels resolve against the roster even when they drift a little
	presence, err = deps.svc.RecordRecognition(ctx, "CS101", []string{"jane doe", "John_Smith", "Stray Visitor"})
	if err != nil {
		t.Fatalf("RecordRecognition() failed: %v", err)
	}
	if _, ok := presence[jane.ID]; !ok {
		t.Errorf("RecordRecognition() fuzzy label not resolved to %q; presence = %v", jane.ID, presence)
	}
	if _, ok := presence["John_Smith"]; !ok {
		t.Errorf("RecordRecognition() exact label missing; presence = %v", presence)
	}
	// unresolved labels stay, cleaned
	if _, ok := presence["Stray_Visitor"]; !ok {
		t.Errorf("RecordRecognition() unresolved label missing; presence = %v", presence)
	}
}

func TestService_Stop(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	testutil.CreateStudent(t, deps.stdRepo, "Jane_Doe", "Jane Doe", "CS101")

	if _, err := deps.svc.Stop(ctx, session.StopSession{ClassID: "CS101"}); err != session.ErrNoActiveSession {
		t.Fatalf("Stop() error = %v, want %v", err, session.ErrNoActiveSession)
	}

	if _, err := deps.svc.Start(session.StartSession{ClassID: "CS101", SessionName: "algebra"}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := deps.svc.RecordRecognition(ctx, "CS101", []string{"Jane Doe", "Unknown"}); err != nil {
			t.Fatalf("RecordRecognition() failed: %v", err)
		}
	}
	time.Sleep(10 * time.Millisecond) // session needs a measurable duration

	res, err := deps.svc.Stop(ctx, session.StopSession{ClassID: "CS101"})
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if res.ClassID != "CS101" || res.RecordsSaved != 1 || res.TotalStudents != 1 {
		t.Errorf("Stop() result = %+v", res)
	}
	if res.SessionID == "" {
		t.Fatal("Stop() empty SessionID")
	}

	// session persisted
	sess, records, err := deps.svc.GetWithRecords(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("GetWithRecords() failed: %v", err)
	}
	if sess.Name != "algebra" || sess.ClassID != "CS101" {
		t.Errorf("GetWithRecords() session = %+v", sess)
	}
	if sess.ProcessingStatus != session.ProcessingPending {
		t.Errorf("ProcessingStatus = %q, want %q", sess.ProcessingStatus, session.ProcessingPending)
	}
	if len(sess.RecognizedStudents) != 1 || sess.RecognizedStudents[0] != "Jane_Doe" {
		t.Errorf("RecognizedStudents = %v", sess.RecognizedStudents)
	}

	// records scored: 3s credited over a few ms of session easily clears the threshold
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.StudentID != "Jane_Doe" || rec.Status != attendance.StatusPresent {
		t.Errorf("record = %+v", rec)
	}
	if rec.PresenceSeconds != 3 {
		t.Errorf("PresenceSeconds = %v, want 3", rec.PresenceSeconds)
	}
	if !rec.SessionID.Valid || rec.SessionID.String != res.SessionID {
		t.Errorf("record SessionID = %+v, want %q", rec.SessionID, res.SessionID)
	}
	wantID := attendance.NewRecordID("CS101", "Jane_Doe", sess.EndTime.UTC().Format(core.DateLayout))
	if rec.ID != wantID {
		t.Errorf("record ID = %q, want %q", rec.ID, wantID)
	}

	// report emailed with the CSV attached
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if !strings.Contains(msg.Subject, "algebra") {
		t.Errorf("report subject = %q", msg.Subject)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].ContentType != "text/csv" {
		t.Fatalf("report attachments = %+v", msg.Attachments)
	}
	csv := msg.Attachments[0].Content.String()
	if !strings.Contains(csv, "Jane_Doe") || !strings.Contains(csv, attendance.StatusPresent) {
		t.Errorf("report CSV = %q", csv)
	}
}

// flakySessionRepo and flakyAttendanceRepo fail writes while err is set.
type flakySessionRepo struct {
	session.Repository
	err error
}

func (r *flakySessionRepo) CreateSession(ctx context.Context, sess session.Session) (session.Session, error) {
	if r.err != nil {
		return session.Session{}, r.err
	}
	return r.Repository.CreateSession(ctx, sess)
}

type flakyAttendanceRepo struct {
	attendance.Repository
	err error
}

func (r *flakyAttendanceRepo) BatchUpsertRecords(ctx context.Context, records []attendance.Record) error {
	if r.err != nil {
		return r.err
	}
	return r.Repository.BatchUpsertRecords(ctx, records)
}

func TestService_Stop_persistenceFailure(t *testing.T) {
	conf := testutil.NewConfig()
	ctx := context.Background()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	sessRepo := &flakySessionRepo{Repository: dummydb.NewSessionRepository(db)}
	attRepo := &flakyAttendanceRepo{Repository: dummydb.NewAttendanceRepository(db)}
	stdRepo := dummydb.NewStudentRepository(db)

	tracker := session.NewTracker(conf.Attendance.PresenceStep)
	attSvc := attendance.NewService(attRepo, nil, 0)
	svc := session.NewService(tracker, sessRepo, attSvc, stdRepo, nil, core.NopLogger{}, conf)

	testutil.CreateStudent(t, stdRepo, "Jane_Doe", "Jane Doe", "CS101")

	if _, err := svc.Start(session.StartSession{ClassID: "CS101"}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err := svc.RecordRecognition(ctx, "CS101", []string{"Jane Doe"}); err != nil {
		t.Fatalf("RecordRecognition() failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond) // session needs a measurable duration

	// a failed session write must not lose the accumulated presence
	sessRepo.err = core.ErrStorageUnavailable
	if _, err := svc.Stop(ctx, session.StopSession{ClassID: "CS101"}); errors.Cause(err) != core.ErrStorageUnavailable {
		t.Fatalf("Stop() error = %v, want %v", err, core.ErrStorageUnavailable)
	}
	if st := tracker.Status("CS101"); !st.Active {
		t.Fatal("Status() inactive after failed stop")
	}

	// same when the records write fails
	sessRepo.err = nil
	attRepo.err = core.ErrStorageUnavailable
	if _, err := svc.Stop(ctx, session.StopSession{ClassID: "CS101"}); errors.Cause(err) != core.ErrStorageUnavailable {
		t.Fatalf("Stop() error = %v, want %v", err, core.ErrStorageUnavailable)
	}
	if st := tracker.Status("CS101"); !st.Active {
		t.Fatal("Status() inactive after failed stop")
	}

	// once storage is back the session stops cleanly, presence intact
	attRepo.err = nil
	res, err := svc.Stop(ctx, session.StopSession{ClassID: "CS101"})
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if res.RecordsSaved != 1 || res.TotalStudents != 1 {
		t.Errorf("Stop() result = %+v", res)
	}
	_, records, err := svc.GetWithRecords(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("GetWithRecords() failed: %v", err)
	}
	if len(records) != 1 || records[0].PresenceSeconds != 1 {
		t.Errorf("records = %+v", records)
	}

	// the retried stop is final
	if _, err = svc.Stop(ctx, session.StopSession{ClassID: "CS101"}); err != session.ErrNoActiveSession {
		t.Errorf("Stop() error = %v, want %v", err, session.ErrNoActiveSession)
	}
}

func TestService_GetWithRecords_notFound(t *testing.T) {
	deps := setup(t)

	_, _, err := deps.svc.GetWithRecords(context.Background(), "CS101_20260831_080000")
	if err != session.ErrNotFound {
		t.Errorf("GetWithRecords() error = %v, want %v", err, session.ErrNotFound)
	}
}

func TestNewID(t *testing.T) {
	endedAt := time.Date(2026, 8, 31, 8, 30, 15, 0, time.UTC)
	if got := session.NewID("CS101", endedAt); got != "CS101_20260831_083015" {
		t.Errorf("NewID() = %q", got)
	}
}
