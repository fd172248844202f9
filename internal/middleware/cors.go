package middleware

import "net/http"

// CORS sets permissive cross-origin headers on API responses and
// short-circuits preflight requests. The public JSON endpoints are open
// to any origin. With the wildcard origin and no Allow-Credentials,
// browsers never attach the session cookie cross-origin, so the admin
// API stays same-origin regardless of these headers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
