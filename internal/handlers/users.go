package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dailydiet/internal/config"
	"dailydiet/internal/dto"
	"dailydiet/internal/models"
	"dailydiet/internal/storage"
	"dailydiet/internal/utils"
)

// UsersHandler handles user registration
type UsersHandler struct {
	store   storage.Store
	session *config.SessionConfig
	logger  zerolog.Logger
}

// NewUsersHandler creates a new UsersHandler instance
func NewUsersHandler(store storage.Store, cfg *config.SessionConfig, logger zerolog.Logger) *UsersHandler {
	return &UsersHandler{store: store, session: cfg, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a user identified by a session cookie. A cookie is issued when the client has none.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User registration data"
// @Success 201 "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.MessageResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	// The cookie is issued before the body is even looked at, so a client
	// that fails validation still walks away with a session token.
	sessionID := ""
	if cookie, err := r.Cookie(h.session.CookieName); err == nil && cookie.Value != "" {
		sessionID = cookie.Value
	} else {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:   h.session.CookieName,
			Value:  sessionID,
			Path:   "/",
			MaxAge: int(h.session.TTL.Seconds()),
		})
	}

	var req dto.CreateUserRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if !utils.ValidateRequest(w, req) {
		return
	}

	// Check if a user with this email already exists
	_, err := h.store.UserByEmail(r.Context(), *req.Email)
	if err == nil {
		utils.WriteJSONResponse(w, http.StatusConflict, dto.MessageResponse{Message: "User already exists"})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Error().Err(err).Msg("lookup user by email")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	user := &models.User{
		ID:        uuid.New(),
		SessionID: sessionID,
		Name:      *req.Name,
		Email:     *req.Email,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		// A client re-registering with its existing cookie and a new email
		// lands here through the unique constraint on session_id.
		h.logger.Error().Err(err).Str("email", user.Email).Msg("insert user")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	w.WriteHeader(http.StatusCreated)
}
