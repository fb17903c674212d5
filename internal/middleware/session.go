package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"dailydiet/internal/config"
	"dailydiet/internal/models"
	"dailydiet/internal/storage"
	"dailydiet/internal/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// The two ways a request can be unauthenticated. Both answer 401 with the
// same body; they are only told apart in logs.
var (
	ErrNoSession      = errors.New("no session cookie")
	ErrUnknownSession = errors.New("session cookie matches no user")
)

// SessionGuard resolves the session cookie to a user before the wrapped
// handler runs
type SessionGuard struct {
	store      storage.Store
	cookieName string
	logger     zerolog.Logger
}

// NewSessionGuard creates a new SessionGuard instance
func NewSessionGuard(store storage.Store, cfg *config.SessionConfig, logger zerolog.Logger) *SessionGuard {
	return &SessionGuard{store: store, cookieName: cfg.CookieName, logger: logger}
}

// Wrap guards a handler: requests without a resolvable session are rejected
// with 401 before any handler work happens. A store failure during lookup is
// not an authentication failure and answers 500 instead
func (g *SessionGuard) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolve(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) && !errors.Is(err, ErrUnknownSession) {
				g.logger.Error().
					Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("session lookup failed")
				utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
				return
			}
			g.logger.Debug().
				Err(err).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("unauthenticated request")
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

func (g *SessionGuard) resolve(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	user, err := g.store.UserBySessionID(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownSession
		}
		return nil, err
	}
	return user, nil
}

// WithUser attaches the resolved user to a request context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user attached by the session guard
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
