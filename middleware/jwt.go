package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/utils"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/pkg/errors"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Nickname string `json:"nickname"`
}

// Validate has nothing to check; the nickname is optional.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(env config.Environment) (func(http.Handler) http.Handler, error) {
	if env.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY is not set")
	}

	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(env.JWTSecretKey), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		env.JWTIssuer,
		[]string{env.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, errors.Wrap(err, "set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}
