package models

// RefreshResponse is the response body for POST /refresh.
// LogWarning is set when the snapshot was saved but the change-log append
// failed; the run is still reported successful.
type RefreshResponse struct {
	Status     string   `json:"status"`
	Count      int      `json:"count"`
	Added      []string `json:"added"`
	Removed    []string `json:"removed"`
	Updated    []string `json:"updated"`
	LogWarning string   `json:"log_warning,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
