package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/mahudhurio/backend/apps/api/echo"
	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/session"
	"github.com/mahudhurio/backend/core/student"
	emailsvc "github.com/mahudhurio/backend/services/email"
	logsvc "github.com/mahudhurio/backend/services/logger"
	recognizersvc "github.com/mahudhurio/backend/services/recognizer"
	rediscache "github.com/mahudhurio/backend/storage/cache"
	"github.com/mahudhurio/backend/storage/database"
	sqlxrepos "github.com/mahudhurio/backend/storage/database/sqlx"
	unavailabledb "github.com/mahudhurio/backend/storage/database/unavailable"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB; keep serving with documented errors when it is unreachable
	var (
		db             *sqlx.DB
		attendanceRepo attendance.Repository
		sessionRepo    session.Repository
		studentRepo    student.Repository
	)
	db, err := setUpDB(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("setting up database: %v; storage endpoints degraded", err), err)
		db = nil
		attendanceRepo = unavailabledb.NewAttendanceRepository()
		sessionRepo = unavailabledb.NewSessionRepository()
		studentRepo = unavailabledb.NewStudentRepository()
	} else {
		attendanceRepo = sqlxrepos.NewAttendanceRepository(db)
		sessionRepo = sqlxrepos.NewSessionRepository(db)
		studentRepo = sqlxrepos.NewStudentRepository(db)
	}
	defer func() {
		if db != nil {
			if err := db.Close(); err != nil {
				logger.Error(fmt.Sprintf("closing database: %v", err), err)
			}
		}
	}()

	// set up cache
	var cache core.Cache
	if conf.Redis.Enabled {
		if cache, err = rediscache.NewRedisCache(conf, logger); err != nil {
			logger.Error(fmt.Sprintf("setting up redis: %v; running uncached", err), err)
			cache = nil
		}
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	recognizerSvc := recognizersvc.NewHTTPService(conf)

	tracker := session.NewTracker(conf.Attendance.PresenceStep)
	attendanceSvc := attendance.NewService(attendanceRepo, cache, conf.Redis.TTL)
	sessionSvc := session.NewService(tracker, sessionRepo, attendanceSvc, studentRepo, mailSvc, logger, conf)
	studentSvc := student.NewService(studentRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Deps{
			Conf:          conf,
			Logger:        logger,
			SessionSvc:    sessionSvc,
			AttendanceSvc: attendanceSvc,
			StudentSvc:    studentSvc,
			RecognizerSvc: recognizerSvc,
			Validate:      validate,
			Translator:    translator,
			StorageCheck:  func() error { return database.Ping(db) },
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
