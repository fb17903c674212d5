package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dailydiet/internal/dto"
	"dailydiet/internal/middleware"
	"dailydiet/internal/models"
	"dailydiet/internal/storage"
	"dailydiet/internal/utils"
)

// Clients match on this exact body for missing meals.
const mealNotFoundMessage = "Refeicao not found"

// MealsHandler handles meal CRUD and adherence metrics
type MealsHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewMealsHandler creates a new MealsHandler instance
func NewMealsHandler(store storage.Store, logger zerolog.Logger) *MealsHandler {
	return &MealsHandler{store: store, logger: logger}
}

// Create handles POST /meals
// @Summary Record a meal
// @Tags meals
// @Accept json
// @Produce json
// @Param request body dto.MealRequest true "Meal payload"
// @Success 201 "Meal created"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /meals [post]
func (h *MealsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req dto.MealRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if !utils.ValidateRequest(w, req) {
		return
	}

	meal := &models.Meal{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        *req.Name,
		Description: *req.Description,
		IsDiet:      *req.IsDiet,
		Date:        req.Date.Milliseconds(),
	}
	if err := h.store.CreateMeal(r.Context(), meal); err != nil {
		h.logger.Error().Err(err).Msg("insert meal")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// List handles GET /meals
// @Summary List the caller's meals, most recent date first
// @Tags meals
// @Produce json
// @Success 200 {object} dto.MealsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /meals [get]
func (h *MealsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	meals, err := h.store.MealsByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list meals")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MealsResponse{Meals: meals})
}

// Get handles GET /meals/{mealId}
// @Summary Fetch a single meal
// @Tags meals
// @Produce json
// @Param mealId path string true "Meal id (uuid)"
// @Success 200 {object} dto.MealResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meals/{mealId} [get]
func (h *MealsHandler) Get(w http.ResponseWriter, r *http.Request) {
	mealID, ok := h.mealIDParam(w, r)
	if !ok {
		return
	}

	// The lookup is by meal id alone, not scoped to the caller: any
	// authenticated user can reach another user's meal by id. This gap is
	// part of the existing contract and is kept on purpose.
	meal, err := h.store.MealByID(r.Context(), mealID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, mealNotFoundMessage, "")
			return
		}
		h.logger.Error().Err(err).Msg("fetch meal")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MealResponse{Meal: *meal})
}

// Update handles PUT /meals/{mealId}
// @Summary Update a meal
// @Tags meals
// @Accept json
// @Produce json
// @Param mealId path string true "Meal id (uuid)"
// @Param request body dto.MealRequest true "Meal payload"
// @Success 204 "Meal updated"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meals/{mealId} [put]
func (h *MealsHandler) Update(w http.ResponseWriter, r *http.Request) {
	mealID, ok := h.mealIDParam(w, r)
	if !ok {
		return
	}

	var req dto.MealRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if !utils.ValidateRequest(w, req) {
		return
	}

	// Lookup and update are two statements, not a transaction; a concurrent
	// delete in between turns the update into a no-op.
	if _, err := h.store.MealByID(r.Context(), mealID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, mealNotFoundMessage, "")
			return
		}
		h.logger.Error().Err(err).Msg("fetch meal")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	meal := &models.Meal{
		ID:          mealID,
		Name:        *req.Name,
		Description: *req.Description,
		IsDiet:      *req.IsDiet,
		Date:        req.Date.Milliseconds(),
	}
	if err := h.store.UpdateMeal(r.Context(), meal); err != nil {
		h.logger.Error().Err(err).Msg("update meal")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /meals/{mealId}
// @Summary Delete a meal
// @Tags meals
// @Produce json
// @Param mealId path string true "Meal id (uuid)"
// @Success 204 "Meal deleted"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meals/{mealId} [delete]
func (h *MealsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mealID, ok := h.mealIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.store.MealByID(r.Context(), mealID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, mealNotFoundMessage, "")
			return
		}
		h.logger.Error().Err(err).Msg("fetch meal")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	if err := h.store.DeleteMeal(r.Context(), mealID); err != nil {
		h.logger.Error().Err(err).Msg("delete meal")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Metrics handles GET /meals/metrics
// @Summary Adherence summary for the caller
// @Description Totals plus the longest on-diet run counted over meals in descending-date order
// @Tags meals
// @Produce json
// @Success 200 {object} dto.MetricsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /meals/metrics [get]
func (h *MealsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	onDiet, err := h.store.CountMealsByDiet(r.Context(), user.ID, true)
	if err != nil {
		h.logger.Error().Err(err).Msg("count on-diet meals")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}
	offDiet, err := h.store.CountMealsByDiet(r.Context(), user.ID, false)
	if err != nil {
		h.logger.Error().Err(err).Msg("count off-diet meals")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}
	meals, err := h.store.MealsByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list meals")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "")
		return
	}

	// The streak is counted in descending-date order, not chronological
	// order. That matches what the API has always reported.
	best, current := 0, 0
	for _, m := range meals {
		if m.IsDiet {
			current++
		} else {
			current = 0
		}
		if current > best {
			best = current
		}
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MetricsResponse{
		TotalMeals:         int64(len(meals)),
		TotalMealsOnDiet:   onDiet,
		TotalMealsOffDiet:  offDiet,
		BestOnDietSequence: best,
	})
}

// mealIDParam parses the {mealId} path parameter, answering 400 when it is
// not a valid uuid
func (h *MealsHandler) mealIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	mealID, err := uuid.Parse(r.PathValue("mealId"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "mealId must be a valid uuid")
		return uuid.Nil, false
	}
	return mealID, true
}
