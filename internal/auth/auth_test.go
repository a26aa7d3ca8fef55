package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService("test-secret")
	require.NoError(t, err)
	return s
}

func TestIssueAndValidate(t *testing.T) {
	s := newService(t)
	token, err := s.IssueToken("alice", time.Hour)
	require.NoError(t, err)

	sub, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestValidateRejects(t *testing.T) {
	s := newService(t)
	other, err := NewService("other-secret")
	require.NoError(t, err)

	foreign, err := other.IssueToken("alice", time.Hour)
	require.NoError(t, err)

	expired, err := s.IssueToken("alice", -time.Minute)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":  "not.a.token",
		"foreign":  foreign,
		"expired":  expired,
		"alg none": none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestConstructorAndIssueErrors(t *testing.T) {
	_, err := NewService("")
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = newService(t).IssueToken("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func subjectEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(SubjectFromContext(r.Context())))
	})
}

func TestMiddleware(t *testing.T) {
	s := newService(t)
	token, err := s.IssueToken("bob", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		required bool
		header   string
		status   int
		body     string
	}{
		{"valid", true, "Bearer " + token, http.StatusOK, "bob"},
		{"missing required", true, "", http.StatusUnauthorized, ""},
		{"missing optional", false, "", http.StatusOK, ""},
		{"bad scheme", false, "Basic abc", http.StatusUnauthorized, ""},
		{"bad token optional", false, "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.Middleware(tt.required)(subjectEcho()).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestMe(t *testing.T) {
	s := newService(t)
	token, err := s.IssueToken("carol", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	NewHandler(s).Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "carol", body.Subject)
	assert.Greater(t, body.ExpiresAt, time.Now().Unix())

	rec = httptest.NewRecorder()
	NewHandler(s).Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
