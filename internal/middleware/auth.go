package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"spacecms/internal/models"
	"spacecms/internal/session"
	"spacecms/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// AdminUserKey is the context key for the resolved admin user row.
	AdminUserKey contextKey = "admin_user"
)

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// This middleware does NOT enforce authentication, it just loads the
// session if one exists.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Treat as unauthenticated rather than failing the request.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated requests with a JSON 401. A session
// that exists but has not completed 2FA verification counts as
// unauthenticated for everything except the 2FA endpoints themselves.
// Must be applied after LoadSession.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || !sess.TwoFADone {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdminRecord re-resolves the session's admin user row from the
// database on every request. A missing or deactivated row destroys the
// session and returns 403: revoking an account takes effect immediately,
// not at session expiry. Must be applied after RequireAuth.
func RequireAdminRecord(users *store.AdminUserStore, sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			user, err := users.FindByID(sess.UserID)
			if err != nil || user == nil || !user.IsActive {
				sessions.Destroy(r.Context(), w, r)
				writeAuthError(w, http.StatusForbidden, "admin access revoked")
				return
			}

			ctx := context.WithValue(r.Context(), AdminUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose resolved admin user ranks below the
// given role. Must be applied after RequireAdminRecord.
func RequireRole(minimum models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := AdminUserFromCtx(r.Context())
			if user == nil || user.Role.Level() < minimum.Level() {
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// AdminUserFromCtx extracts the resolved admin user from the request
// context. Returns nil outside a RequireAdminRecord chain.
func AdminUserFromCtx(ctx context.Context) *models.AdminUser {
	user, _ := ctx.Value(AdminUserKey).(*models.AdminUser)
	return user
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
