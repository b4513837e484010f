package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core/student"
	"github.com/mahudhurio/backend/storage/database"
)

// setup provisions storage for a fresh deployment: it creates the app
// role and database if needed, applies all migrations and verifies
// connectivity with a write/read/delete probe.
func (cli *commandLine) setup() error {
	logger.Print("creating database if it does not exist...")
	if err := database.CreateIfNotExist(cli.conf); err != nil {
		return err
	}

	if err := cli.openDB(); err != nil {
		return err
	}

	logger.Print("applying migrations...")
	if err := database.Migrate(cli.db); err != nil {
		return err
	}

	logger.Print("running storage probe...")
	if err := cli.probe(); err != nil {
		return errors.Wrap(err, "storage probe")
	}

	logger.Print("setup complete")
	return nil
}

func (cli *commandLine) probe() error {
	ctx := context.Background()
	now := time.Now().UTC()
	std := student.Student{
		ID:        "setup_probe",
		Name:      "Setup Probe",
		ClassID:   "setup_probe",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := cli.stdRepo.CreateStudent(ctx, std); err != nil {
		return errors.Wrap(err, "write")
	}
	if _, err := cli.stdRepo.GetStudentByID(ctx, std.ID); err != nil {
		return errors.Wrap(err, "read")
	}
	if err := cli.stdRepo.DeleteStudentsByID(ctx, std.ID); err != nil {
		return errors.Wrap(err, "delete")
	}
	return nil
}
