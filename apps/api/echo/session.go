package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/session"
)

type sessionApi struct {
	svc        *session.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerSessionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *session.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := sessionApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/sessions")
	sg.GET("/status", api.status)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/start", api.start)
	ag.POST("/stop", api.stop)
}

// Handlers

func (api *sessionApi) start(ctx echo.Context) error {
	var data session.StartSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartSession")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	status, err := api.svc.Start(data)
	if err != nil {
		if errors.Cause(err) == session.ErrAlreadyActive {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return errors.Wrap(err, "starting session")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"status":      "started",
		"classId":     status.ClassID,
		"sessionName": status.SessionName,
		"startTime":   status.StartedAt,
	})
}

func (api *sessionApi) stop(ctx echo.Context) error {
	var data session.StopSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StopSession")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	result, err := api.svc.Stop(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == session.ErrNoActiveSession {
			return echo.NewHTTPError(http.StatusBadRequest, "no active session found")
		}
		return errors.Wrap(err, "stopping session")
	}

	return ctx.JSON(http.StatusOK, result)
}

func (api *sessionApi) status(ctx echo.Context) error {
	classID := core.CleanString(ctx.QueryParam("classId"))
	if classID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "classId", Error: "this field is required"})
	}
	return ctx.JSON(http.StatusOK, api.svc.Status(classID))
}
