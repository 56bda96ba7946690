// Package auth implements the optional bearer-token collaborator: an
// HTTP middleware that verifies HS256 JWTs against a shared secret and
// places the caller identity in the request context. It is only mounted
// when auth is enabled in configuration.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/demoapp/userapi/internal/httpd"
)

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	Subject string
	Name    string
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from ctx, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// Middleware returns a handler wrapper that rejects requests without a
// valid "Authorization: Bearer <token>" header.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpd.Error(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				httpd.Error(w, http.StatusUnauthorized, "Invalid Authorization header")
				return
			}

			p, err := parseToken(strings.TrimSpace(parts[1]), secret)
			if err != nil {
				httpd.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// parseToken validates an HS256 token and extracts the principal.
func parseToken(tokenStr, secret string) (*Principal, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	type claims struct {
		Name string `json:"name"`
		jwt.RegisteredClaims
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	c, _ := tok.Claims.(*claims)
	if c == nil || c.Subject == "" {
		return nil, errors.New("invalid claims")
	}
	return &Principal{Subject: c.Subject, Name: c.Name}, nil
}
