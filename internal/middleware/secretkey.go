// Package middleware provides HTTP middlewares for the edge service.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// SecretKeyHeader is the header carrying the shared upload key.
const SecretKeyHeader = "X-Secret-Key"

// RequireSecretKey rejects requests whose X-Secret-Key header does not match
// key. An empty key rejects every request, so uploads stay disabled until a
// key is configured.
func RequireSecretKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SecretKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "invalid secret key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
