package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator(testSecret, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var seen string
	h := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetParticipantIDFromContext(r.Context())
		if err != nil {
			t.Errorf("participant missing from context: %v", err)
		}
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		header string
		want   int
		wantID string
	}{
		{"sub claim", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "alice", "exp": exp}), http.StatusNoContent, "alice"},
		{"numeric user_id claim", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": float64(42), "exp": exp}), http.StatusNoContent, "42"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"bad signature", "Bearer " + signToken(t, "other", jwt.MapClaims{"sub": "alice", "exp": exp}), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, ""},
		{"no identity", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"exp": exp}), http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodPost, "/tournaments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if seen != tt.wantID {
				t.Fatalf("expected participant %q, got %q", tt.wantID, seen)
			}
		})
	}
}

func TestGetParticipantIDFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := GetParticipantIDFromContext(req.Context()); err == nil {
		t.Fatal("expected error without claims")
	}
	ctx := WithParticipantID(req.Context(), "bob")
	if id, err := GetParticipantIDFromContext(ctx); err != nil || id != "bob" {
		t.Fatalf("expected bob, got %q (%v)", id, err)
	}
}
