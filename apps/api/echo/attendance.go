package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/attendance"
	"github.com/mahudhurio/backend/core/session"
)

type attendanceApi struct {
	svc        *attendance.Service
	sessionSvc *session.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(
	g *echo.Group,
	svc *attendance.Service,
	sessionSvc *session.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := attendanceApi{
		svc:        svc,
		sessionSvc: sessionSvc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/attendance")
	ag.GET("/sessions/:sessionId", api.forSession)
	ag.GET("/:classId", api.forClass)
}

// AttendanceQuery is the validated query for class attendance.
type AttendanceQuery struct {
	ClassID string `param:"classId" json:"classId" validate:"required,alphanum_"`
	Date    string `query:"date" json:"date" validate:"date_"`
}

func (q *AttendanceQuery) Validate(validate *validator.Validate, _ ut.Translator) error {
	q.ClassID = core.CleanString(q.ClassID)
	q.Date = core.CleanString(q.Date)
	return validate.Struct(q)
}

func (api *attendanceApi) forClass(ctx echo.Context) error {
	query := AttendanceQuery{
		ClassID: ctx.Param("classId"),
		Date:    ctx.QueryParam("date"),
	}
	if err := query.Validate(api.validate, api.translator); err != nil {
		return err
	}

	date := query.Date
	if date == "" {
		date = core.Today()
	}
	records, err := api.svc.ForClass(ctx.Request().Context(), query.ClassID, date)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Record{}
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"classId":      query.ClassID,
		"date":         date,
		"records":      records,
		"totalRecords": len(records),
	})
}

func (api *attendanceApi) forSession(ctx echo.Context) error {
	sessionID := core.CleanString(ctx.Param("sessionId"))

	sess, records, err := api.sessionSvc.GetWithRecords(ctx.Request().Context(), sessionID)
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying session attendance")
	}
	if records == nil {
		records = []attendance.Record{}
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"sessionId":          sess.ID,
		"sessionName":        sess.Name,
		"classId":            sess.ClassID,
		"startTime":          sess.StartTime,
		"endTime":            sess.EndTime,
		"recognizedStudents": sess.RecognizedStudents,
		"attendanceRecords":  records,
		"totalRecords":       len(records),
		"totalStudents":      sess.TotalStudents,
	})
}
