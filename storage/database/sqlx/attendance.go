package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

const upsertRecordStmt = `
INSERT INTO attendance (
	id, class_id, student_id, date, status,
	presence_seconds, attendance_percentage, session_duration,
	session_id, created_at, updated_at
) VALUES (:id, :class_id, :student_id, :date, :status,
	:presence_seconds, :attendance_percentage, :session_duration,
	:session_id, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	presence_seconds = EXCLUDED.presence_seconds,
	attendance_percentage = EXCLUDED.attendance_percentage,
	session_duration = EXCLUDED.session_duration,
	session_id = EXCLUDED.session_id,
	updated_at = EXCLUDED.updated_at`

func (repo attendanceRepository) BatchUpsertRecords(ctx context.Context, records []attendance.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	for _, rec := range records {
		if _, err = tx.NamedExecContext(ctx, upsertRecordStmt, rec); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "upserting record %s", rec.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "committing records")
}

func (repo attendanceRepository) FilterRecordsByClassDate(ctx context.Context, classID, date string) ([]attendance.Record, error) {
	var records []attendance.Record
	err := repo.db.SelectContext(ctx, &records,
		`SELECT * FROM attendance WHERE class_id = $1 AND date = $2 ORDER BY student_id`,
		classID, date,
	)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return records, nil
}

func (repo attendanceRepository) FilterRecordsBySession(ctx context.Context, sessionID string) ([]attendance.Record, error) {
	var records []attendance.Record
	err := repo.db.SelectContext(ctx, &records,
		`SELECT * FROM attendance WHERE session_id = $1 ORDER BY student_id`,
		sessionID,
	)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return records, nil
}
