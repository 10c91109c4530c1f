package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialposts/internal/apperr"
	"socialposts/internal/auth"
)

var secret = []byte("test-secret")

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestVerify_ValidToken(t *testing.T) {
	v := auth.NewVerifier(secret)
	token := signToken(t, secret, jwt.MapClaims{"sub": "u1", "username": "alice"})

	user, err := v.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != "u1" || user.Username != "alice" {
		t.Fatalf("wrong principal: %+v", user)
	}
}

func TestVerify_Rejections(t *testing.T) {
	v := auth.NewVerifier(secret)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "Bearer not.a.token",
		"wrong secret":   signToken(t, []byte("other"), jwt.MapClaims{"sub": "u1", "username": "alice"}),
		"missing claims": signToken(t, secret, jwt.MapClaims{"sub": "u1"}),
		"expired": signToken(t, secret, jwt.MapClaims{
			"sub": "u1", "username": "alice", "exp": time.Now().Add(-time.Hour).Unix(),
		}),
	}
	for name, token := range cases {
		if _, err := v.Verify(token); apperr.KindOf(err) != apperr.KindAuthentication {
			t.Errorf("%s: expected authentication kind got %v", name, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	v := auth.NewVerifier(secret)
	handler := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := auth.FromContext(r.Context()); u != nil {
			w.Write([]byte(u.Username))
			return
		}
		w.Write([]byte("guest"))
	}))

	// валидный токен
	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, jwt.MapClaims{"sub": "u1", "username": "alice"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Fatalf("expected alice got %d %q", rec.Code, rec.Body.String())
	}

	// без заголовка — гость
	req = httptest.NewRequest(http.MethodPost, "/query", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "guest" {
		t.Fatalf("expected guest got %d %q", rec.Code, rec.Body.String())
	}

	// битый токен — отказ, а не гость
	req = httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	if _, err := auth.Principal(req.Context()); apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("expected authentication kind got %v", err)
	}

	v := auth.NewVerifier(secret)
	user, err := v.Verify(signToken(t, secret, jwt.MapClaims{"sub": "u1", "username": "alice"}))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	ctx := auth.WithUser(req.Context(), user)
	got, err := auth.Principal(ctx)
	if err != nil || got.Username != "alice" {
		t.Fatalf("expected alice got %v %v", got, err)
	}
}
