package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadinessResponse reports which dependencies failed their readiness check.
type ReadinessResponse struct {
	Status string   `json:"status"           example:"unavailable"`
	Failed []string `json:"failed,omitempty"`
}
