package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets browser forms on any origin post to the API. Preflight requests
// are answered with 204 before routing.
func CORS() func(http.Handler) http.Handler {
	allow := cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodOptions, http.MethodPost, http.MethodPut},
		AllowedHeaders:     []string{"Content-Type"},
		OptionsPassthrough: true,
	})

	return func(next http.Handler) http.Handler {
		return allow(answerPreflight(next))
	}
}

func answerPreflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}
