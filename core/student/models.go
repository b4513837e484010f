package student

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
)

var (
	ErrNotFound = errors.New("student not found")
	ErrIDExists = errors.New("a student with this ID already exists")
)

// Student is reference data linking a person to a class. The session flow
// reads it but never mutates it.
type Student struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ClassID   string    `json:"classId" db:"class_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type NewStudent struct {
	ID      string `json:"id" validate:"omitempty,alphanum_"`
	Name    string `json:"name" validate:"required,alphanum_"`
	ClassID string `json:"classId" validate:"required,alphanum_"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, _ ut.Translator) error {
	ns.ID = CleanName(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	ns.ClassID = core.CleanString(ns.ClassID)
	if ns.ID == "" {
		ns.ID = CleanName(ns.Name)
	}
	return validate.Struct(ns)
}

// CleanName normalizes a student name into its identifier form: trimmed,
// inner spaces replaced with underscores. Recognizer labels are keyed the
// same way.
func CleanName(name string) string {
	return strings.ReplaceAll(core.CleanString(name), " ", "_")
}
