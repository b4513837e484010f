package attendance

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("attendance record not found")

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record is the persisted outcome for one student on one class day.
// Records are keyed <classID>_<studentID>_<date> so a same-day re-run
// upserts instead of duplicating.
type Record struct {
	ID                   string    `json:"id" db:"id"`
	ClassID              string    `json:"classId" db:"class_id"`
	StudentID            string    `json:"studentId" db:"student_id"`
	Date                 string    `json:"date" db:"date"` // YYYY-MM-DD, UTC
	Status               string    `json:"status" db:"status"`
	PresenceSeconds      float64   `json:"presenceTime" db:"presence_seconds"`
	AttendancePercentage float64   `json:"attendancePercentage" db:"attendance_percentage"`
	SessionDuration      float64   `json:"sessionDuration" db:"session_duration"`
	SessionID            null.String `json:"sessionId,omitempty" db:"session_id"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}

// NewRecordID builds the deterministic record key for a class/student/day.
func NewRecordID(classID, studentID, date string) string {
	return classID + "_" + studentID + "_" + date
}

// Score fills Status and AttendancePercentage from the presence ratio.
// A zero-length session scores everyone absent.
func (r *Record) Score(threshold float64) {
	var ratio float64
	if r.SessionDuration > 0 {
		ratio = r.PresenceSeconds / r.SessionDuration
	}
	r.AttendancePercentage = ratio * 100
	if ratio >= threshold {
		r.Status = StatusPresent
	} else {
		r.Status = StatusAbsent
	}
}
