package model

// Response is the generic success envelope.
type Response struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
}

// ErrorResponse is the error envelope. Errors and Detail are only populated
// outside production mode.
type ErrorResponse struct {
	Message    string   `json:"message"`
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
	Detail     string   `json:"detail,omitempty"`
}

// HealthData is the /health payload.
type HealthData struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// UserListData is the admin user listing payload.
type UserListData struct {
	Users []User `json:"users"`
	Count int    `json:"count"`
}
