package session

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
)

var ErrNotFound = errors.New("session not found")

// Processing statuses for downstream consumers (transcripts, summaries).
const (
	ProcessingPending = "pending"
	ProcessingDone    = "done"
)

// Session is the persisted outcome of a stopped class session.
type Session struct {
	ID                 string    `json:"sessionId" db:"id"`
	Name               string    `json:"sessionName" db:"name"`
	ClassID            string    `json:"classId" db:"class_id"`
	StartTime          time.Time `json:"startTime" db:"start_time"`
	EndTime            time.Time `json:"endTime" db:"end_time"`
	DurationMinutes    int       `json:"durationMinutes" db:"duration_minutes"`
	RecognizedStudents []string  `json:"recognizedStudents" db:"-"`
	TotalStudents      int       `json:"totalStudents" db:"total_students"`
	AudioProcessed     bool      `json:"audioProcessed" db:"audio_processed"`
	ProcessingStatus   string    `json:"processingStatus" db:"processing_status"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// NewID builds the deterministic session document ID the same way records
// have always been keyed: <classID>_<YYYYMMDD>_<HHMMSS> of the stop time.
func NewID(classID string, endedAt time.Time) string {
	return classID + "_" + endedAt.UTC().Format("20060102_150405")
}

// StartSession is the payload opening a class session.
type StartSession struct {
	ClassID     string `json:"classId" validate:"required,alphanum_"`
	SessionName string `json:"sessionName" validate:"omitempty,alphanum_"`
}

func (ss *StartSession) Validate(validate *validator.Validate, _ ut.Translator) error {
	ss.ClassID = core.CleanString(ss.ClassID)
	ss.SessionName = core.CleanString(ss.SessionName)
	return validate.Struct(ss)
}

// StopSession is the payload closing a class session.
type StopSession struct {
	ClassID string `json:"classId" validate:"required,alphanum_"`
}

func (ss *StopSession) Validate(validate *validator.Validate, _ ut.Translator) error {
	ss.ClassID = core.CleanString(ss.ClassID)
	return validate.Struct(ss)
}
