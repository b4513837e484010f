package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CheckIDUniqueness(ctx context.Context, id string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, id,
	)
	if err != nil {
		return errors.Wrap(err, "checking student ID")
	}
	if exists {
		return student.ErrIDExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO students (id, name, class_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		std.ID, std.Name, std.ClassID, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	err := repo.db.GetContext(ctx, &std, `SELECT * FROM students WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return std, nil
}

func (repo studentRepository) FilterStudentsByClass(ctx context.Context, classID string) ([]student.Student, error) {
	var (
		students []student.Student
		err      error
	)
	if classID == "" {
		err = repo.db.SelectContext(ctx, &students, `SELECT * FROM students ORDER BY id`)
	} else {
		err = repo.db.SelectContext(ctx, &students, `SELECT * FROM students WHERE class_id = $1 ORDER BY id`, classID)
	}
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return students, nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
