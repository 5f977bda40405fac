package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-esg-platform/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout abandons handlers that outlive the deadline and answers 503 with the
// regular error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Code:    "REQUEST_TIMEOUT",
		Message: "request timed out",
	})

	return func(next http.Handler) http.Handler {
		timed := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			timed.ServeHTTP(w, r)
		})
	}
}
