package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"spacecms/internal/middleware"
	"spacecms/internal/models"
	"spacecms/internal/store"
)

// Users groups the admin user management handlers. Every operation is
// checked server-side against the role hierarchy: the caller must be able
// to manage the target role, and nobody manages their own account.
type Users struct {
	users *store.AdminUserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.AdminUserStore) *Users {
	return &Users{users: users}
}

// List returns all admin users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": users})
}

// Create adds a new admin user with an explicit role. The caller must be
// allowed to manage that role.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.AdminUserFromCtx(r.Context())

	var req struct {
		Email       string      `json:"email"`
		Password    string      `json:"password"`
		DisplayName string      `json:"display_name"`
		Role        models.Role `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}
	if !caller.Role.CanManage(req.Role) {
		writeError(w, http.StatusForbidden, "you cannot create users with that role")
		return
	}

	user, err := h.users.Create(req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		slog.Error("create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	slog.Info("admin user created", "email", user.Email, "role", user.Role, "by", caller.Email)
	writeSuccess(w, http.StatusCreated, map[string]any{"user": user})
}

// SetActive toggles a user's active flag.
func (h *Users) SetActive(w http.ResponseWriter, r *http.Request) {
	caller := middleware.AdminUserFromCtx(r.Context())

	target, ok := h.resolveTarget(w, r, caller)
	if !ok {
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.SetActive(target.ID, req.IsActive); err != nil {
		slog.Error("set user active failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("admin user active flag changed",
		"email", target.Email, "is_active", req.IsActive, "by", caller.Email)
	writeSuccess(w, http.StatusOK, nil)
}

// Delete removes a user account entirely.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.AdminUserFromCtx(r.Context())

	target, ok := h.resolveTarget(w, r, caller)
	if !ok {
		return
	}

	if err := h.users.Delete(target.ID); err != nil {
		slog.Error("delete user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("admin user deleted", "email", target.Email, "by", caller.Email)
	writeSuccess(w, http.StatusOK, nil)
}

// ResetTOTP clears a user's 2FA enrollment so they re-enroll at next login.
func (h *Users) ResetTOTP(w http.ResponseWriter, r *http.Request) {
	caller := middleware.AdminUserFromCtx(r.Context())

	target, ok := h.resolveTarget(w, r, caller)
	if !ok {
		return
	}

	if err := h.users.ResetTOTP(target.ID); err != nil {
		slog.Error("reset totp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("admin user totp reset", "email", target.Email, "by", caller.Email)
	writeSuccess(w, http.StatusOK, nil)
}

// resolveTarget parses the {id} URL parameter, loads the target user, and
// enforces the management hierarchy. Writes the error response itself and
// returns ok=false when the caller may not proceed.
func (h *Users) resolveTarget(w http.ResponseWriter, r *http.Request, caller *models.AdminUser) (*models.AdminUser, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return nil, false
	}

	target, err := h.users.FindByID(id)
	if err != nil {
		slog.Error("target user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return nil, false
	}

	if target.ID == caller.ID {
		writeError(w, http.StatusForbidden, "you cannot manage your own account")
		return nil, false
	}
	if !caller.Role.CanManage(target.Role) {
		writeError(w, http.StatusForbidden, "you cannot manage users with that role")
		return nil, false
	}

	return target, true
}
