package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorycms/internal/delivery/http/helpers"
	"advisorycms/internal/domain"
)

type fakeTokenVerifier struct {
	userID string
	role   string
	err    error

	lastToken string
}

func (f *fakeTokenVerifier) Verify(token string) (string, string, error) {
	f.lastToken = token
	if f.err != nil {
		return "", "", f.err
	}
	return f.userID, f.role, nil
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifier   *fakeTokenVerifier
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good.jwt",
			verifier:   &fakeTokenVerifier{userID: "user-123", role: domain.RoleEditor},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &fakeTokenVerifier{userID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc123",
			verifier:   &fakeTokenVerifier{userID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty bearer token",
			authHeader: "Bearer ",
			verifier:   &fakeTokenVerifier{userID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier rejects token",
			authHeader: "Bearer expired.jwt",
			verifier:   &fakeTokenVerifier{err: errors.New("token expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID, gotRole string
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = UserIDFromContext(r.Context())
				gotRole, _ = RoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			RequireAuth(tt.verifier)(next)(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if tt.wantNext {
				assert.Equal(t, "user-123", gotUserID)
				assert.Equal(t, domain.RoleEditor, gotRole)
				assert.Equal(t, "good.jwt", tt.verifier.lastToken)
			} else {
				assert.Equal(t, helpers.ErrCodeUnauthorized, decodeErrorCode(t, rr))
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("valid token sets user", func(t *testing.T) {
		verifier := &fakeTokenVerifier{userID: "user-42", role: domain.RoleMember}
		var gotUserID string
		var gotOK bool
		next := func(w http.ResponseWriter, r *http.Request) {
			gotUserID, gotOK = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/ev-1/registrations", nil)
		req.Header.Set("Authorization", "Bearer good.jwt")
		rr := httptest.NewRecorder()

		OptionalAuth(verifier)(next)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotOK)
		assert.Equal(t, "user-42", gotUserID)
	})

	t.Run("missing token still calls next", func(t *testing.T) {
		verifier := &fakeTokenVerifier{userID: "user-42"}
		var gotOK bool
		next := func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/ev-1/registrations", nil)
		rr := httptest.NewRecorder()

		OptionalAuth(verifier)(next)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, gotOK)
	})

	t.Run("invalid token still calls next without user", func(t *testing.T) {
		verifier := &fakeTokenVerifier{err: errors.New("bad signature")}
		var gotOK bool
		next := func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/ev-1/registrations", nil)
		req.Header.Set("Authorization", "Bearer tampered.jwt")
		rr := httptest.NewRecorder()

		OptionalAuth(verifier)(next)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, gotOK)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		ctxRole    string
		allowed    []string
		wantStatus int
		wantNext   bool
		wantCode   string
	}{
		{
			name:       "role allowed",
			ctxRole:    domain.RoleEditor,
			allowed:    []string{domain.RoleAdmin, domain.RoleEditor},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "role not allowed",
			ctxRole:    domain.RoleMember,
			allowed:    []string{domain.RoleAdmin},
			wantStatus: http.StatusForbidden,
			wantCode:   helpers.ErrCodeForbidden,
		},
		{
			name:       "no role in context",
			allowed:    []string{domain.RoleAdmin},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/ev-1", nil)
			if tt.ctxRole != "" {
				req = req.WithContext(SetUser(req.Context(), "user-123", tt.ctxRole))
			}
			rr := httptest.NewRecorder()

			RequireRole(tt.allowed...)(next)(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeErrorCode(t, rr))
			}
		})
	}
}
