package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahudhurio/backend/core"
)

const tokenContextKey = "clientToken"

// Claims represents the authorization claims transmitted via a JWT.
// Clients are recognition devices or operator dashboards, not end users.
type Claims struct {
	jwt.StandardClaims
	Device string `json:"device,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// NewClaims builds the claims issued to an authenticated client.
func NewClaims(conf *core.Config, device string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   device,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Device: device,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

type authApi struct {
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(g *echo.Group, conf *core.Config, validate *validator.Validate, translator ut.Translator) {
	api := authApi{conf: conf, validate: validate, translator: translator}

	// TODO: rate limit `/auth/token`
	g.POST("/auth/token", api.token)
}

type (
	TokenRequest struct {
		APIKey string `json:"apiKey" validate:"required"`
		Device string `json:"device" validate:"omitempty,alphanum_"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (tr *TokenRequest) Validate(validate *validator.Validate, _ ut.Translator) error {
	tr.Device = core.CleanString(tr.Device)
	return validate.Struct(tr)
}

func (api *authApi) token(ctx echo.Context) error {
	var data TokenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenRequest")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	if api.conf.APIKeyHash == "" {
		return errAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(api.conf.APIKeyHash), []byte(data.APIKey)); err != nil {
		return errAuthenticationFailed
	}

	device := data.Device
	if device == "" {
		device = "default"
	}
	token, err := GenerateToken(api.conf, NewClaims(api.conf, device))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}
