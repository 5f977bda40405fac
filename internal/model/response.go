package model

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Code    string       `json:"code,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Error   string       `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
