package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/session"
	"github.com/mahudhurio/backend/core/student"
)

type (
	Deps struct {
		Conf          *core.Config
		Logger        core.Logger
		SessionSvc    *session.Service
		AttendanceSvc *attendance.Service
		StudentSvc    *student.Service
		RecognizerSvc core.RecognizerService
		Validate      *validator.Validate
		Translator    ut.Translator
		// StorageCheck reports backing-store reachability for the health endpoint.
		StorageCheck func() error
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       *Deps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps *Deps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown, s.deps.Translator)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwtConf := newJWTConfig(conf)
	jwt := middleware.JWTWithConfig(jwtConf)

	registerAuthAPI(v1, conf, s.deps.Validate, s.deps.Translator)
	registerSessionAPI(v1, jwt, s.deps.SessionSvc, s.deps.Validate, s.deps.Translator)
	registerRecognitionAPI(v1, jwt, s.deps.SessionSvc, s.deps.RecognizerSvc, s.deps.Logger)
	registerAttendanceAPI(v1, s.deps.AttendanceSvc, s.deps.SessionSvc, s.deps.Validate, s.deps.Translator)
	registerStudentAPI(v1, jwt, s.deps.StudentSvc, s.deps.Validate, s.deps.Translator)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

// signalShutdown lets the error handler request a graceful stop when an
// integrity error bubbles up.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	storage := "connected"
	if s.deps.StorageCheck != nil {
		if err := s.deps.StorageCheck(); err != nil {
			storage = "disconnected"
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":  "running",
		"message": "Welcome to " + s.deps.Conf.AppName + " API!",
		"storage": storage,
		"endpoints": echo.Map{
			"POST /v1/auth/token":                    "exchange the API key for an access token",
			"POST /v1/sessions/start":                "start an attendance session for a class",
			"POST /v1/sessions/stop":                 "stop the session and persist attendance",
			"GET /v1/sessions/status":                "current session status for a class",
			"POST /v1/recognize":                     "submit an image for recognition",
			"GET /v1/attendance/:classId":            "attendance records for a class (optional ?date=)",
			"GET /v1/attendance/sessions/:sessionId": "attendance records for a session",
			"POST /v1/students":                      "register a student",
			"GET /v1/students":                       "list students (optional ?classId=)",
			"DELETE /v1/students/:id":                "remove a student",
		},
	})
}
