package dto

// HealthResponse represents the response structure for health checks.
// Status is one of ok, alive, ready or degraded.
type HealthResponse struct {
	Status  string `json:"status"`
	Details any    `json:"details,omitempty"`
}
