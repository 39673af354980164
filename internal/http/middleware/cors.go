package middleware

import (
	"net/http"
)

// CORSHeaders returns the fixed header set attached to every response the
// lead pipeline produces, success and error alike. The browser client only
// ever talks to us from a single origin, so there is no allowlist logic.
func CORSHeaders(allowedOrigin string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":      allowedOrigin,
		"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		"Access-Control-Allow-Methods":     "OPTIONS,POST,GET",
		"Access-Control-Allow-Credentials": "true",
		"Content-Type":                     "application/json",
	}
}

// CORS applies the fixed header set to every response and answers preflight
// OPTIONS requests with 200 and an empty body.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	headers := CORSHeaders(allowedOrigin)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range headers {
				w.Header().Set(k, v)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
