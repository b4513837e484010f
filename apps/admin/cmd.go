package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/student"
	"github.com/mahudhurio/backend/storage/database"
	sqlxrepos "github.com/mahudhurio/backend/storage/database/sqlx"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	db      *sqlx.DB
	stdRepo student.Repository
	attRepo attendance.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  setup                              - create the database, apply migrations and run a storage probe")
	fmt.Println("  migrate COMMAND [args]             - run a goose migration command (up, down, status, ...)")
	fmt.Println("  hashapikey                         - hash an API key for the APIKEYHASH setting. The key will be prompted next.")
	fmt.Println("  addstudent -name NAME -class CLASS - register a student; -id overrides the generated ID")
}

// openDB connects lazily so commands that do not touch storage
// (hashapikey) work without a reachable database.
func (cli *commandLine) openDB() error {
	if cli.stdRepo != nil {
		return nil
	}
	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	if err = database.Ping(db); err != nil {
		return err
	}
	cli.db = db
	cli.stdRepo = sqlxrepos.NewStudentRepository(db)
	cli.attRepo = sqlxrepos.NewAttendanceRepository(db)
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentID := addStudentCmd.String("id", "", "The student's ID. Defaults to the cleaned name.")
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentClass := addStudentCmd.String("class", "", "The class the student belongs to.")

	switch args[1] {
	case "setup":
		return cli.setup()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if err := cli.openDB(); err != nil {
			return err
		}
		return cli.migrate(args[2:])
	case "hashapikey":
		fmt.Print("Enter API key:")
		key, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(key) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashAPIKey(key)
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentClass == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		if err := cli.openDB(); err != nil {
			return err
		}
		return cli.addStudent(*addStudentID, *addStudentName, *addStudentClass)
	default:
		cli.printUsage()
		return errHelp
	}
}
