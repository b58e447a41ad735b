package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Options describe how tokens are signed and which claims they must carry.
type Options struct {
	SecretKey string
	Issuer    string
	Audience  string
}

// CreateToken signs an HS256 token for subject. The server only validates
// tokens; this is used by the token command and by tests.
func CreateToken(opts Options, subject, nickname string, ttl time.Duration) (string, error) {
	if opts.SecretKey == "" {
		return "", fmt.Errorf("auth: JWT secret key not set")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iss": opts.Issuer,
		"aud": []string{opts.Audience},
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if nickname != "" {
		claims["nickname"] = nickname
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(opts.SecretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks signature, expiry, issuer and audience and returns the subject.
func VerifyToken(opts Options, tokenString string) (string, error) {
	if opts.SecretKey == "" {
		return "", fmt.Errorf("auth: JWT secret key not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(opts.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(opts.Issuer),
		jwt.WithAudience(opts.Audience),
	)
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	return token.Claims.GetSubject()
}
