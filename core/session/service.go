package session

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/student"
)

type (
	Repository interface {
		// CreateSession writes the session row, overwriting a same-ID
		// row left behind by an earlier failed stop.
		CreateSession(ctx context.Context, sess Session) (Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
	}

	// StopResult summarizes a stopped and persisted session.
	StopResult struct {
		Message       string `json:"message"`
		ClassID       string `json:"classId"`
		SessionID     string `json:"sessionId"`
		RecordsSaved  int    `json:"recordsSaved"`
		TotalStudents int    `json:"totalStudents"`
	}

	Service struct {
		tracker       *Tracker
		repo          Repository
		attendanceSvc *attendance.Service
		studentRepo   student.Repository
		mailSvc       core.EmailService
		logger        core.Logger
		conf          *core.Config
	}
)

func NewService(
	tracker *Tracker,
	repo Repository,
	attendanceSvc *attendance.Service,
	studentRepo student.Repository,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		tracker:       tracker,
		repo:          repo,
		attendanceSvc: attendanceSvc,
		studentRepo:   studentRepo,
		mailSvc:       mailSvc,
		logger:        logger,
		conf:          conf,
	}
}

// Start opens a session for the class. Only one session may be open per
// class at a time.
func (svc *Service) Start(ss StartSession) (Status, error) {
	return svc.tracker.Start(ss.ClassID, ss.SessionName)
}

// Status reports whether the class has an open session.
func (svc *Service) Status(classID string) Status {
	return svc.tracker.Status(classID)
}

// RecordRecognition attributes recognizer sightings to the open session of
// the class. Labels are resolved against the class roster when possible so
// attendance is keyed by student ID; unresolved labels are kept as-is, the
// roster may simply be out of date.
func (svc *Service) RecordRecognition(ctx context.Context, classID string, labels []string) (map[string]time.Duration, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	roster, err := svc.studentRepo.FilterStudentsByClass(ctx, classID)
	if err != nil && errors.Cause(err) != core.ErrStorageUnavailable {
		return nil, errors.Wrap(err, "loading class roster")
	}

	ids := make([]string, 0, len(labels))
	for _, label := range labels {
		if std, ok := student.MatchName(label, roster); ok {
			ids = append(ids, std.ID)
		} else {
			ids = append(ids, student.CleanName(label))
		}
	}
	return svc.tracker.Record(classID, ids)
}

// Stop closes the class session, scores and persists its attendance
// records, persists the session itself and emails the session report.
func (svc *Service) Stop(ctx context.Context, ss StopSession) (StopResult, error) {
	summary, err := svc.tracker.Stop(ss.ClassID)
	if err != nil {
		return StopResult{}, err
	}

	sess, records := svc.buildRecords(summary)

	// the session row goes first so records never reference a missing
	// session. On any persistence failure the class session is reopened
	// with its accumulated presence, so a later stop can retry.
	if _, err = svc.repo.CreateSession(ctx, sess); err != nil {
		svc.tracker.Restore(summary)
		return StopResult{}, errors.Wrap(err, "creating session record")
	}
	if err = svc.attendanceSvc.Save(ctx, records); err != nil {
		svc.tracker.Restore(summary)
		return StopResult{}, err
	}

	svc.sendReport(sess, records)

	return StopResult{
		Message:       "session stopped and attendance saved",
		ClassID:       ss.ClassID,
		SessionID:     sess.ID,
		RecordsSaved:  len(records),
		TotalStudents: len(summary.Presence),
	}, nil
}

// GetWithRecords returns a persisted session and its attendance records.
func (svc *Service) GetWithRecords(ctx context.Context, sessionID string) (Session, []attendance.Record, error) {
	sess, err := svc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return Session{}, nil, err
	}
	records, err := svc.attendanceSvc.ForSession(ctx, sessionID)
	if err != nil {
		return Session{}, nil, err
	}
	return sess, records, nil
}

func (svc *Service) buildRecords(summary Summary) (Session, []attendance.Record) {
	now := time.Now().UTC()
	date := summary.EndedAt.UTC().Format(core.DateLayout)
	duration := summary.Duration.Seconds()
	sessID := NewID(summary.ClassID, summary.EndedAt)

	students := make([]string, 0, len(summary.Presence))
	for id := range summary.Presence {
		students = append(students, id)
	}
	sort.Strings(students)

	records := make([]attendance.Record, 0, len(students))
	for _, id := range students {
		rec := attendance.Record{
			ID:              attendance.NewRecordID(summary.ClassID, id, date),
			ClassID:         summary.ClassID,
			StudentID:       id,
			Date:            date,
			PresenceSeconds: summary.Presence[id].Seconds(),
			SessionDuration: duration,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		rec.SessionID.SetValid(sessID)
		rec.Score(svc.conf.Attendance.PresentThreshold)
		records = append(records, rec)
	}

	sess := Session{
		ID:                 sessID,
		Name:               summary.SessionName,
		ClassID:            summary.ClassID,
		StartTime:          summary.StartedAt,
		EndTime:            summary.EndedAt,
		DurationMinutes:    int(summary.Duration.Minutes()),
		RecognizedStudents: students,
		TotalStudents:      len(students),
		ProcessingStatus:   ProcessingPending,
		CreatedAt:          now,
	}
	return sess, records
}

// sendReport emails the session summary with a CSV of the scored records
// attached. Failures are logged, never surfaced: the session is already
// persisted by the time the report goes out.
func (svc *Service) sendReport(sess Session, records []attendance.Record) {
	if svc.mailSvc == nil || len(svc.conf.ReportRecipients) == 0 {
		return
	}

	to := make([]mail.Address, 0, len(svc.conf.ReportRecipients))
	for _, addr := range svc.conf.ReportRecipients {
		to = append(to, mail.Address{Address: addr})
	}

	present := 0
	for _, rec := range records {
		if rec.Status == attendance.StatusPresent {
			present++
		}
	}

	msg := &core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Attendance report: %s (%s)", sess.Name, sess.ClassID),
		BodyStr: fmt.Sprintf(
			"Session %s for class %s ran from %s to %s (%d min).\n"+
				"%d student(s) recognized, %d present.\n",
			sess.Name, sess.ClassID,
			sess.StartTime.Format(time.RFC1123), sess.EndTime.Format(time.RFC1123),
			sess.DurationMinutes, sess.TotalStudents, present,
		),
	}

	if csvBuf, err := recordsCSV(records); err != nil {
		svc.logger.Error(fmt.Sprintf("building report CSV: %v", err), err)
	} else {
		msg.Attachments = append(msg.Attachments, core.Attachment{
			Content:     csvBuf,
			ContentType: "text/csv",
			Filename:    "attendance_" + sess.ID + ".csv",
		})
	}

	svc.mailSvc.SendMessages(msg)
}

func recordsCSV(records []attendance.Record) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Student", "Presence (s)", "Session Duration (s)", "Attendance (%)", "Status", "Date"}); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := []string{
			rec.StudentID,
			strconv.FormatFloat(rec.PresenceSeconds, 'f', 2, 64),
			strconv.FormatFloat(rec.SessionDuration, 'f', 0, 64),
			fmt.Sprintf("%.1f%%", rec.AttendancePercentage),
			rec.Status,
			rec.Date,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}
