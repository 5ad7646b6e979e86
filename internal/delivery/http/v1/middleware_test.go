package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddlewareRejections(t *testing.T) {
	auth := newMockAuthService()
	router := setupRouter(auth, newMockTaskService())

	cases := []struct {
		name   string
		header string
	}{
		{"missing_header", ""},
		{"no_scheme", "some-token"},
		{"wrong_scheme", "Token some-token"},
		{"lowercase_scheme", "bearer some-token"},
		{"unknown_token", "Bearer never-issued"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	auth := newMockAuthService()
	router := setupRouter(auth, newMockTaskService())
	token, userID := registerUser(t, router, "user@example.com", "password123")

	// The token is still valid, but its subject is gone.
	auth.deleteUser(userID)

	rec := doJSON(t, router, http.MethodGet, "/todos", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	auth := newMockAuthService()
	router := setupRouter(auth, newMockTaskService())
	token, userID := registerUser(t, router, "user@example.com", "password123")

	rec := doJSON(t, router, http.MethodPost, "/todos", token, map[string]string{
		"text": "Buy milk",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp struct {
		UserID string `json:"userId"`
	}
	decodeBody(t, rec, &resp)
	if resp.UserID != userID {
		t.Errorf("userId = %q, want %q", resp.UserID, userID)
	}
}
