package api

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyAuth guards every search endpoint. The key is taken from the
// api_key query parameter or the X-API-Key header and compared in
// constant time against the configured keys.
func APIKeyAuth(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Query().Get("api_key")
			if key == "" {
				key = r.Header.Get("X-API-Key")
			}
			if key == "" {
				respondError(w, http.StatusForbidden, "API key required")
				return
			}

			for _, valid := range keys {
				if len(key) == len(valid) && subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			respondError(w, http.StatusForbidden, "Invalid API key")
		})
	}
}
