package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"dailydiet/internal/handlers"
	"dailydiet/internal/middleware"
)

// SetupRoutes wires all application routes onto the mux. Every /meals route
// sits behind the session guard; registration and health do not.
func SetupRoutes(
	mux *http.ServeMux,
	users *handlers.UsersHandler,
	meals *handlers.MealsHandler,
	health *handlers.HealthHandler,
	guard *middleware.SessionGuard,
) {
	// Health check routes
	mux.HandleFunc("GET /healthz", health.HealthCheck)
	mux.HandleFunc("GET /livez", health.LivenessCheck)
	mux.HandleFunc("GET /readyz", health.ReadinessCheck)

	// User registration
	mux.HandleFunc("POST /users", users.Register)

	// Meal routes
	mux.HandleFunc("POST /meals", guard.Wrap(meals.Create))
	mux.HandleFunc("GET /meals", guard.Wrap(meals.List))
	mux.HandleFunc("GET /meals/metrics", guard.Wrap(meals.Metrics))
	mux.HandleFunc("GET /meals/{mealId}", guard.Wrap(meals.Get))
	mux.HandleFunc("PUT /meals/{mealId}", guard.Wrap(meals.Update))
	mux.HandleFunc("DELETE /meals/{mealId}", guard.Wrap(meals.Delete))

	// Swagger UI
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
}
