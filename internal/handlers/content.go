package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"spacecms/internal/cache"
	"spacecms/internal/middleware"
	"spacecms/internal/sections"
	"spacecms/internal/store"
)

// defaultHistoryLimit bounds history listings when the client does not
// ask for a specific count.
const defaultHistoryLimit = 50

// Content groups the content section admin handlers.
type Content struct {
	content   *store.ContentStore
	pageCache *cache.PageCache
}

// NewContent creates a new Content handler group.
func NewContent(content *store.ContentStore, pageCache *cache.PageCache) *Content {
	return &Content{content: content, pageCache: pageCache}
}

// List returns every content section, drafts included.
func (h *Content) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.List()
	if err != nil {
		slog.Error("list sections failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"sections": items})
}

// Get returns one section by key.
func (h *Content) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	section, err := h.content.FindByKey(key)
	if err != nil {
		slog.Error("find section failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if section == nil {
		writeError(w, http.StatusNotFound, "section not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"section": section})
}

// Update replaces a section's content. Each successful write bumps the
// version and appends one journal entry.
func (h *Content) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.AdminUserFromCtx(r.Context())
	key := chi.URLParam(r, "key")

	var req struct {
		Content json.RawMessage `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.Content) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	section, err := h.content.UpdateContent(key, req.Content, &caller.ID)
	if err != nil {
		// Validation failures surface as 400 with the decode detail;
		// anything else is a store failure.
		if errors.Is(err, sections.ErrInvalid) {
			slog.Warn("content update rejected", "key", key, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.Contains(err.Error(), "unknown section") {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		slog.Error("content update failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeSuccess(w, http.StatusOK, map[string]any{"section": section})
}

// SetPublished flips a section's visibility. The version and the history
// journal stay untouched.
func (h *Content) SetPublished(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		IsPublished bool `json:"is_published"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.content.SetPublished(key, req.IsPublished); err != nil {
		if strings.Contains(err.Error(), "unknown section") {
			writeError(w, http.StatusNotFound, "section not found")
			return
		}
		slog.Error("set published failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeSuccess(w, http.StatusOK, nil)
}

// History returns the journal for one section, newest first.
func (h *Content) History(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	items, err := h.content.HistoryForKey(key, limit)
	if err != nil {
		slog.Error("list history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"history": items})
}

// RecentHistory returns the latest journal entries across all sections,
// for the dashboard activity feed.
func (h *Content) RecentHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.RecentHistory(20)
	if err != nil {
		slog.Error("recent history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"history": items})
}
