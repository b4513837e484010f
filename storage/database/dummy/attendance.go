package dummydb

import (
	"context"
	"sort"

	"github.com/mahudhurio/backend/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) BatchUpsertRecords(_ context.Context, records []attendance.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, rec := range records {
		rec := rec
		if old, ok := repo.db.table[rec.ID]; ok {
			rec.CreatedAt = old.CreatedAt
		}
		repo.db.table[rec.ID] = &rec
	}
	return nil
}

func (repo *attendanceRepository) FilterRecordsByClassDate(_ context.Context, classID, date string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var records []attendance.Record
	for _, rec := range repo.db.table {
		if rec.ClassID == classID && rec.Date == date {
			records = append(records, *rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func (repo *attendanceRepository) FilterRecordsBySession(_ context.Context, sessionID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var records []attendance.Record
	for _, rec := range repo.db.table {
		if rec.SessionID.Valid && rec.SessionID.String == sessionID {
			records = append(records, *rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func sortRecords(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
}
