package main

import (
	"context"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/student"
)

// addStudent registers a student on a class roster.
func (cli *commandLine) addStudent(id, name, classID string) error {
	name = core.CleanString(name)
	if id == "" {
		id = student.CleanName(name)
	} else {
		id = student.CleanName(id)
	}

	svc := student.NewService(cli.stdRepo)
	std, err := svc.Create(context.Background(), student.NewStudent{
		ID:      id,
		Name:    name,
		ClassID: student.CleanName(classID),
	})
	if err != nil {
		return err
	}
	logger.Printf("student %q registered in class %q", std.ID, std.ClassID)
	return nil
}
