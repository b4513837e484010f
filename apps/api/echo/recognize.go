package echoapi

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/session"
)

// maxImageBytes caps uploaded frames; cameras send single JPEG frames.
const maxImageBytes = 10 << 20

type recognizeApi struct {
	sessionSvc *session.Service
	recognizer core.RecognizerService
	logger     core.Logger
}

func registerRecognitionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	sessionSvc *session.Service,
	recognizer core.RecognizerService,
	logger core.Logger,
) {
	api := recognizeApi{
		sessionSvc: sessionSvc,
		recognizer: recognizer,
		logger:     logger,
	}

	g.POST("/recognize", api.recognize, jwt)
}

// recognizeRequest is the JSON alternative to a multipart upload.
type recognizeRequest struct {
	Image   string `json:"image"`
	ClassID string `json:"classId"`
}

// recognize accepts either multipart/form-data with an `image` file or JSON
// with a base64 `image` (optionally a data URI). When the class has an open
// session, matched faces are credited as presence.
func (api *recognizeApi) recognize(ctx echo.Context) error {
	image, classID, err := api.readImage(ctx)
	if err != nil {
		return err
	}
	if classID == "" {
		classID = core.CleanString(ctx.QueryParam("classId"))
	}

	recog, err := api.recognizer.Recognize(ctx.Request().Context(), image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("recognition failed: %v", err))
	}

	if names := recog.Names(); len(names) > 0 {
		if classID == "" {
			return core.NewValidationError(nil, core.FieldError{
				Field: "classId",
				Error: "classId is required while a session is active",
			})
		}
		if _, err = api.sessionSvc.RecordRecognition(ctx.Request().Context(), classID, names); err != nil {
			// sightings outside an open session are not an error for the camera
			if errors.Cause(err) != session.ErrNoActiveSession {
				api.logger.Error(fmt.Sprintf("recording recognition results: %v", err), err)
			}
		}
	}

	return ctx.JSON(http.StatusOK, recog)
}

func (api *recognizeApi) readImage(ctx echo.Context) ([]byte, string, error) {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var data recognizeRequest
		if err := ctx.Bind(&data); err != nil {
			return nil, "", errors.Wrap(err, "binding to recognizeRequest")
		}
		if data.Image == "" {
			return nil, "", core.NewValidationError(nil, core.FieldError{Field: "image", Error: "this field is required"})
		}
		image, err := decodeBase64Image(data.Image)
		if err != nil {
			return nil, "", core.NewValidationError(errors.New("invalid base64 image"))
		}
		return image, core.CleanString(data.ClassID), nil
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		return nil, "", core.NewValidationError(nil, core.FieldError{Field: "image", Error: "no image file provided"})
	}
	src, err := file.Open()
	if err != nil {
		return nil, "", errors.Wrap(err, "opening uploaded image")
	}
	defer func() { _ = src.Close() }()

	image, err := io.ReadAll(io.LimitReader(src, maxImageBytes))
	if err != nil {
		return nil, "", errors.Wrap(err, "reading uploaded image")
	}
	return image, "", nil
}

// decodeBase64Image accepts raw base64 or a "data:image/...;base64," URI.
func decodeBase64Image(data string) ([]byte, error) {
	if idx := strings.IndexByte(data, ','); idx >= 0 {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
