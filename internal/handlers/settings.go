package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spacecms/internal/cache"
	"spacecms/internal/store"
)

// Settings groups the site settings handlers.
type Settings struct {
	settings  *store.SiteSettingStore
	pageCache *cache.PageCache
}

// NewSettings creates a new Settings handler group.
func NewSettings(settings *store.SiteSettingStore, pageCache *cache.PageCache) *Settings {
	return &Settings{settings: settings, pageCache: pageCache}
}

// List returns every setting as a key to JSON-value map.
func (h *Settings) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.settings.All()
	if err != nil {
		slog.Error("list settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"settings": all})
}

// Get returns a single setting by key.
func (h *Settings) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	setting, err := h.settings.Get(key)
	if err != nil {
		slog.Error("get setting failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if setting == nil {
		writeError(w, http.StatusNotFound, "setting not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"setting": setting})
}

// Set upserts a setting, replacing the whole JSON value.
func (h *Settings) Set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.Value) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.Set(key, req.Value); err != nil {
		if errors.Is(err, store.ErrInvalidValue) {
			writeError(w, http.StatusBadRequest, "setting value must be valid json")
			return
		}
		slog.Error("set setting failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeSuccess(w, http.StatusOK, nil)
}
