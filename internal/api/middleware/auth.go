package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edvin/mailorg/internal/api/response"
)

// Authenticator validates the Authorization header on every request.
// When a JWT secret is configured the bearer token is verified as an
// HS256 JWT; otherwise it is compared against the static service token
// in constant time.
type Authenticator struct {
	staticToken string
	jwtSecret   []byte
}

func NewAuthenticator(staticToken, jwtSecret string) *Authenticator {
	a := &Authenticator{staticToken: staticToken}
	if jwtSecret != "" {
		a.jwtSecret = []byte(jwtSecret)
	}
	return a
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if err := a.verify(token); err != nil {
			response.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) verify(token string) error {
	if a.jwtSecret != nil {
		_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.jwtSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		return err
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(a.staticToken)) != 1 {
		return fmt.Errorf("token mismatch")
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
