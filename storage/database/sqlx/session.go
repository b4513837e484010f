package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core/session"
)

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *sqlx.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

// sessionRow carries the TEXT[] column sqlx cannot scan into a plain slice.
type sessionRow struct {
	session.Session
	Students pq.StringArray `db:"recognized_students"`
}

func (repo sessionRepository) CreateSession(ctx context.Context, sess session.Session) (session.Session, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sessions (
			id, name, class_id, start_time, end_time, duration_minutes,
			recognized_students, total_students, audio_processed, processing_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			duration_minutes = EXCLUDED.duration_minutes,
			recognized_students = EXCLUDED.recognized_students,
			total_students = EXCLUDED.total_students,
			processing_status = EXCLUDED.processing_status`,
		sess.ID, sess.Name, sess.ClassID, sess.StartTime, sess.EndTime, sess.DurationMinutes,
		pq.Array(sess.RecognizedStudents), sess.TotalStudents, sess.AudioProcessed, sess.ProcessingStatus, sess.CreatedAt,
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return sess, nil
}

func (repo sessionRepository) GetSessionByID(ctx context.Context, id string) (session.Session, error) {
	var row sessionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	sess := row.Session
	sess.RecognizedStudents = []string(row.Students)
	return sess, nil
}
