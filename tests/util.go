package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/student"
)

// NewConfig returns a self-contained config for tests: no dotenv files,
// no external services.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:   "Mahudhurio",
		Env:       "TEST",
		Debug:     true,
		TestMode:  true,
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
		},
		Redis: core.RedisConfig{
			TTL: time.Minute,
		},
		Attendance: core.AttendanceConfig{
			PresentThreshold: 0.25,
			PresenceStep:     time.Second,
		},
	}
}

func CreateStudent(t *testing.T, repo student.Repository, id, name, classID string) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := repo.CreateStudent(context.Background(), student.Student{
		ID:        id,
		Name:      name,
		ClassID:   classID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateRecord(
	t *testing.T,
	repo attendance.Repository,
	classID, studentID, date string,
	presence, duration float64,
	threshold float64,
) attendance.Record {
	t.Helper()
	now := time.Now().UTC()
	rec := attendance.Record{
		ID:              attendance.NewRecordID(classID, studentID, date),
		ClassID:         classID,
		StudentID:       studentID,
		Date:            date,
		PresenceSeconds: presence,
		SessionDuration: duration,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	rec.Score(threshold)
	if err := repo.BatchUpsertRecords(context.Background(), []attendance.Record{rec}); err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
