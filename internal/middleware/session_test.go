package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dailydiet/internal/config"
	"dailydiet/internal/models"
	"dailydiet/internal/storage"
)

func newGuard(t *testing.T) (*SessionGuard, *storage.MockStore, *models.User) {
	t.Helper()

	store := storage.NewMockStore()
	user := &models.User{
		ID:        uuid.New(),
		SessionID: uuid.NewString(),
		Name:      "Ricardo",
		Email:     "ricardo@email.com",
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	cfg := &config.SessionConfig{CookieName: "sessionId", TTL: 7 * 24 * time.Hour}
	return NewSessionGuard(store, cfg, zerolog.Nop()), store, user
}

func TestSessionGuard(t *testing.T) {
	guard, _, user := newGuard(t)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "missing cookie",
			cookie:     nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty cookie value",
			cookie:     &http.Cookie{Name: "sessionId", Value: ""},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown token",
			cookie:     &http.Cookie{Name: "sessionId", Value: "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			cookie:     &http.Cookie{Name: "sessionId", Value: user.SessionID},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := guard.Wrap(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				resolved, ok := UserFromContext(r.Context())
				if !ok {
					t.Fatal("no user in context")
				}
				if resolved.ID != user.ID {
					t.Errorf("context user = %s, want %s", resolved.ID, user.ID)
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/meals", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
		})
	}
}

func TestSessionGuardStoreFailure(t *testing.T) {
	guard, store, user := newGuard(t)
	store.FailWith = context.DeadlineExceeded

	handler := guard.Wrap(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/meals", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: user.SessionID})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if body := w.Body.String(); !strings.Contains(body, "Database error") {
		t.Errorf("body = %s, want database error", body)
	}
}
