// Package router sets up all HTTP routes and middleware chains: the
// public landing page, the JSON admin API, and the operational endpoints.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spacecms/internal/handlers"
	"spacecms/internal/middleware"
	"spacecms/internal/models"
	"spacecms/internal/session"
	"spacecms/internal/store"
	"spacecms/web"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Sessions   *session.Store
	Users      *store.AdminUserStore
	Auth       *handlers.Auth
	UserAdmin  *handlers.Users
	Content    *handlers.Content
	Media      *handlers.Media
	Settings   *handlers.Settings
	Public     *handlers.Public
	Ops        *handlers.Ops
	SEO        *handlers.SEO
	MediaTools *handlers.MediaTools
}

// New creates the configured chi router with all middleware and route
// groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS)
	r.Use(middleware.LoadSession(d.Sessions))

	// Public surface.
	r.Get("/", d.Public.Landing)
	r.Get("/health", d.Public.Health)
	r.Get("/api/content", d.Public.ContentJSON)
	r.Handle("/static/*", http.FileServerFS(web.StaticFS))

	// Credential endpoints get a tight per-IP limit against brute force.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
		})

		// 2FA enrollment and verification run on a session that has not
		// completed 2FA yet, so they sit outside RequireAuth.
		r.Post("/2fa/setup", d.Auth.TwoFASetup)
		r.Post("/2fa/verify", d.Auth.TwoFAVerify)
		r.Post("/logout", d.Auth.Logout)
	})

	// Authenticated admin API. Every request re-resolves the admin row,
	// so deactivated accounts lose access immediately.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdminRecord(d.Users, d.Sessions))

		r.Get("/me", d.Auth.Me)

		// User management needs at least the admin role.
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Get("/", d.UserAdmin.List)
			r.Post("/", d.UserAdmin.Create)
			r.Patch("/{id}/active", d.UserAdmin.SetActive)
			r.Post("/{id}/reset-2fa", d.UserAdmin.ResetTOTP)
			r.Delete("/{id}", d.UserAdmin.Delete)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/", d.Content.List)
			r.Get("/history", d.Content.RecentHistory)
			r.Get("/{key}", d.Content.Get)
			r.Put("/{key}", d.Content.Update)
			r.Patch("/{key}/publish", d.Content.SetPublished)
			r.Get("/{key}/history", d.Content.History)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", d.Media.List)
			r.Post("/", d.Media.Upload)
			r.Put("/{id}/file", d.Media.Replace)
			r.Patch("/{id}", d.Media.UpdateMeta)
			r.Delete("/{id}", d.Media.Delete)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", d.Settings.List)
			r.Get("/{key}", d.Settings.Get)
			r.Put("/{key}", d.Settings.Set)
		})

		r.Get("/ops", d.Ops.Get)
		r.Post("/ops", d.Ops.Post)
		r.Get("/seo", d.SEO.Get)
		r.Post("/seo", d.SEO.Post)
		r.Get("/media-tools", d.MediaTools.Usage)
		r.Post("/media-tools", d.MediaTools.Post)
	})

	return r
}
