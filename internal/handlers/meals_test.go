package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailydiet/internal/models"
	"dailydiet/internal/storage"
)

func mealBody(name string, isDiet bool, date any) map[string]any {
	return map[string]any{
		"name":        name,
		"description": name + " description",
		"isdiet":      isDiet,
		"date":        date,
	}
}

func seedMeal(t *testing.T, store *storage.MockStore, userID uuid.UUID, isDiet bool, date int64) *models.Meal {
	t.Helper()

	meal := &models.Meal{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "Almoco",
		Description: "Almoco description",
		IsDiet:      isDiet,
		Date:        date,
	}
	require.NoError(t, store.CreateMeal(context.Background(), meal))
	return meal
}

func TestCreateMeal(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")

	w := doJSON(t, mux, http.MethodPost, "/meals",
		mealBody("Cafe da Manha", true, "2024-03-29T08:00:00Z"), cookie)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())

	meals, err := store.MealsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, user.ID, meals[0].UserID)
	assert.Equal(t, "Cafe da Manha", meals[0].Name)
	assert.True(t, meals[0].IsDiet)
}

func TestCreateMealValidation(t *testing.T) {
	mux, store := newTestServer(t)
	_, cookie := seedUser(t, store, "ricardo@email.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing name", body: map[string]any{"description": "d", "isdiet": true, "date": 1}},
		{name: "missing isdiet", body: map[string]any{"name": "n", "description": "d", "date": 1}},
		{name: "missing date", body: map[string]any{"name": "n", "description": "d", "isdiet": false}},
		{name: "unparseable date", body: mealBody("n", true, "not a date")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/meals", tt.body, cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMealRoutesRequireSession(t *testing.T) {
	mux, store := newTestServer(t)
	user, _ := seedUser(t, store, "ricardo@email.com")
	meal := seedMeal(t, store, user.ID, true, 1000)

	routes := []struct {
		method string
		target string
		body   map[string]any
	}{
		{http.MethodPost, "/meals", mealBody("n", true, 1)},
		{http.MethodGet, "/meals", nil},
		{http.MethodGet, "/meals/" + meal.ID.String(), nil},
		{http.MethodPut, "/meals/" + meal.ID.String(), mealBody("n", true, 1)},
		{http.MethodDelete, "/meals/" + meal.ID.String(), nil},
		{http.MethodGet, "/meals/metrics", nil},
	}

	for _, cookie := range []*http.Cookie{
		nil,
		{Name: testCookieName, Value: "unknown-token"},
	} {
		for _, rt := range routes {
			name := fmt.Sprintf("%s %s cookie=%v", rt.method, rt.target, cookie != nil)
			t.Run(name, func(t *testing.T) {
				w := doJSON(t, mux, rt.method, rt.target, rt.body, cookie)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
			})
		}
	}

	// Nothing was mutated along the way
	meals, err := store.MealsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, meal.Name, meals[0].Name)
}

func TestListMealsDescendingByDate(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")

	older := seedMeal(t, store, user.ID, true, 1_000_000)
	newer := seedMeal(t, store, user.ID, false, 2_000_000)

	// Another user's meals must not leak into the list
	other, _ := seedUser(t, store, "ana@email.com")
	seedMeal(t, store, other.ID, true, 3_000_000)

	w := doJSON(t, mux, http.MethodGet, "/meals", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meals []models.Meal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Meals, 2)
	assert.Equal(t, newer.ID, resp.Meals[0].ID)
	assert.Equal(t, older.ID, resp.Meals[1].ID)
}

func TestGetMeal(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")
	meal := seedMeal(t, store, user.ID, true, 1711678800000)

	w := doJSON(t, mux, http.MethodGet, "/meals/"+meal.ID.String(), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meal models.Meal `json:"meal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, meal.ID, resp.Meal.ID)
	assert.Equal(t, int64(1711678800000), resp.Meal.Date)
}

func TestGetMealNotFound(t *testing.T) {
	mux, store := newTestServer(t)
	_, cookie := seedUser(t, store, "ricardo@email.com")

	w := doJSON(t, mux, http.MethodGet, "/meals/"+uuid.NewString(), nil, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Refeicao not found"}`, w.Body.String())
}

func TestGetMealInvalidID(t *testing.T) {
	mux, store := newTestServer(t)
	_, cookie := seedUser(t, store, "ricardo@email.com")

	w := doJSON(t, mux, http.MethodGet, "/meals/not-a-uuid", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMealOfAnotherUser(t *testing.T) {
	mux, store := newTestServer(t)
	owner, _ := seedUser(t, store, "ricardo@email.com")
	meal := seedMeal(t, store, owner.ID, true, 1000)

	// The lookup is by id alone; another authenticated user can read it
	_, otherCookie := seedUser(t, store, "ana@email.com")
	w := doJSON(t, mux, http.MethodGet, "/meals/"+meal.ID.String(), nil, otherCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMeal(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")
	meal := seedMeal(t, store, user.ID, true, 1000)

	w := doJSON(t, mux, http.MethodPut, "/meals/"+meal.ID.String(),
		mealBody("Jantar", false, 2000), cookie)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	updated, err := store.MealByID(context.Background(), meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jantar", updated.Name)
	assert.False(t, updated.IsDiet)
	assert.Equal(t, int64(2000), updated.Date)
}

func TestUpdateMealNotFound(t *testing.T) {
	mux, store := newTestServer(t)
	_, cookie := seedUser(t, store, "ricardo@email.com")

	w := doJSON(t, mux, http.MethodPut, "/meals/"+uuid.NewString(),
		mealBody("Jantar", false, 2000), cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Refeicao not found"}`, w.Body.String())
}

func TestDeleteMeal(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")
	meal := seedMeal(t, store, user.ID, true, 1000)

	w := doJSON(t, mux, http.MethodDelete, "/meals/"+meal.ID.String(), nil, cookie)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/meals/"+meal.ID.String(), nil, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMealNotFound(t *testing.T) {
	mux, store := newTestServer(t)
	_, cookie := seedUser(t, store, "ricardo@email.com")

	w := doJSON(t, mux, http.MethodDelete, "/meals/"+uuid.NewString(), nil, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")

	// Descending-date diet sequence: true, false, true, true, true
	flags := []bool{true, false, true, true, true}
	date := int64(5_000_000)
	for _, f := range flags {
		seedMeal(t, store, user.ID, f, date)
		date -= 1_000_000
	}

	w := doJSON(t, mux, http.MethodGet, "/meals/metrics", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"totalMeals":5,"totalMealsOnDiet":4,"totalMealsOffDiet":1,"bestOnDietSequence":3}`,
		w.Body.String())
}

func TestMetricsEmpty(t *testing.T) {
	mux, store := newTestServer(t)
	_, cookie := seedUser(t, store, "ricardo@email.com")

	w := doJSON(t, mux, http.MethodGet, "/meals/metrics", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"totalMeals":0,"totalMealsOnDiet":0,"totalMealsOffDiet":0,"bestOnDietSequence":0}`,
		w.Body.String())
}

func TestCreateThenFetchRoundTripsDate(t *testing.T) {
	mux, store := newTestServer(t)
	user, cookie := seedUser(t, store, "ricardo@email.com")

	const dateMs = int64(1711678800000)
	w := doJSON(t, mux, http.MethodPost, "/meals", mealBody("Cafe", true, dateMs), cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	meals, err := store.MealsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, meals, 1)

	w = doJSON(t, mux, http.MethodGet, "/meals/"+meals[0].ID.String(), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meal struct {
			Date int64 `json:"date"`
		} `json:"meal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dateMs, resp.Meal.Date)
}
