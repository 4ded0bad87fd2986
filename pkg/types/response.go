package types

// Issue is one field-level validation failure.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Message string  `json:"message"`
	Code    string  `json:"code,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Health is returned by the liveness and readiness probes.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
