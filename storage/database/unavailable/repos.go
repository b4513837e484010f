// Package unavailabledb provides repositories wired when the database could
// not be opened at startup. Every call fails with core.ErrStorageUnavailable
// so the API degrades to documented errors instead of crashing.
package unavailabledb

import (
	"context"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/session"
	"github.com/mahudhurio/backend/core/student"
)

type repos struct{}

var (
	_ attendance.Repository = repos{}
	_ session.Repository    = repos{}
	_ student.Repository    = repos{}
)

func NewAttendanceRepository() attendance.Repository { return repos{} }
func NewSessionRepository() session.Repository       { return repos{} }
func NewStudentRepository() student.Repository       { return repos{} }

func (repos) BatchUpsertRecords(context.Context, []attendance.Record) error {
	return core.ErrStorageUnavailable
}

func (repos) FilterRecordsByClassDate(context.Context, string, string) ([]attendance.Record, error) {
	return nil, core.ErrStorageUnavailable
}

func (repos) FilterRecordsBySession(context.Context, string) ([]attendance.Record, error) {
	return nil, core.ErrStorageUnavailable
}

func (repos) CreateSession(context.Context, session.Session) (session.Session, error) {
	return session.Session{}, core.ErrStorageUnavailable
}

func (repos) GetSessionByID(context.Context, string) (session.Session, error) {
	return session.Session{}, core.ErrStorageUnavailable
}

func (repos) CheckIDUniqueness(context.Context, string) error {
	return core.ErrStorageUnavailable
}

func (repos) CreateStudent(context.Context, student.Student) (student.Student, error) {
	return student.Student{}, core.ErrStorageUnavailable
}

func (repos) GetStudentByID(context.Context, string) (student.Student, error) {
	return student.Student{}, core.ErrStorageUnavailable
}

func (repos) FilterStudentsByClass(context.Context, string) ([]student.Student, error) {
	return nil, core.ErrStorageUnavailable
}

func (repos) DeleteStudentsByID(context.Context, ...string) error {
	return core.ErrStorageUnavailable
}
