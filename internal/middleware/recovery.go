package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go-esg-platform/internal/model"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				requestID := RequestIDFromContext(r.Context())
				slog.Error("panic recovered",
					"error", fmt.Sprintf("%v", recovered),
					"request_id", requestID,
					"stack", string(debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = jsonEncode(w, model.APIResponse{
					Success: false,
					Code:    "INTERNAL_ERROR",
					Message: "Unexpected server error",
					Error:   requestID,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
