// Package auth resolves bearer tokens into principals. Tokens are HS256 JWTs
// carrying "sub" (stable user id) and "username" claims.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"socialposts/graph/model"
	"socialposts/internal/apperr"
)

type ctxKey struct{}

var userKey ctxKey

type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify parses and validates a bearer token and returns the principal it
// names. The "Bearer " prefix is optional.
func (v *Verifier) Verify(tokenString string) (*model.User, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, apperr.Authentication("missing token")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Authentication("invalid or expired token")
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" || username == "" {
		return nil, apperr.Authentication("token missing identity claims")
	}
	return &model.User{ID: sub, Username: username}, nil
}

// Middleware resolves the Authorization header into a principal on the
// request context. Requests without the header pass through as guests; a
// present but invalid token fails the request instead of degrading silently.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := v.Verify(header)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext returns the principal or nil for guests.
func FromContext(ctx context.Context) *model.User {
	if u, ok := ctx.Value(userKey).(*model.User); ok {
		return u
	}
	return nil
}

// Principal is FromContext for operations that require authentication.
func Principal(ctx context.Context) (*model.User, error) {
	if u := FromContext(ctx); u != nil {
		return u, nil
	}
	return nil, apperr.Authentication("authentication required")
}
