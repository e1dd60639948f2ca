package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware converts panics into opaque 500 responses
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"status":"error","error":"operation failed"}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
