package dummydb

import (
	"sync"

	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/session"
	"github.com/mahudhurio/backend/core/student"
)

type (
	DB struct {
		attendance *attendanceTable
		session    *sessionTable
		student    *studentTable
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]*session.Session
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}
)

func Open() (*DB, error) {
	db := &DB{
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		session:    &sessionTable{table: make(map[string]*session.Session)},
		student:    &studentTable{table: make(map[string]*student.Student)},
	}
	return db, nil
}
