package student

import (
	"context"
	"time"

	"github.com/mahudhurio/backend/core"
)

type (
	Repository interface {
		CheckIDUniqueness(ctx context.Context, id string) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// FilterStudentsByClass returns all students when classID is empty.
		FilterStudentsByClass(ctx context.Context, classID string) ([]Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.repo.CheckIDUniqueness(ctx, ns.ID); err != nil {
		if err == ErrIDExists {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "id", Error: err.Error()})
		}
		return Student{}, err
	}
	now := time.Now().UTC()
	std := Student{
		ID:        ns.ID,
		Name:      ns.Name,
		ClassID:   ns.ClassID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) ForClass(ctx context.Context, classID string) ([]Student, error) {
	return svc.repo.FilterStudentsByClass(ctx, core.CleanString(classID))
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
