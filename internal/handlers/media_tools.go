package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"spacecms/internal/cache"
	"spacecms/internal/middleware"
	"spacecms/internal/storage"
	"spacecms/internal/store"
)

// imageFields are the top-level content keys that can hold an image URL.
var imageFields = []string{"hero_image", "featured_image", "background_image", "image_url", "image"}

// itemImageFields are the keys that can hold an image URL inside an
// items array entry.
var itemImageFields = []string{"image", "image_url", "imageUrl"}

// MediaTools serves the image-wiring endpoint: reporting where each
// media URL is referenced in section content, and swapping references
// in place. Every content mutation here goes through the versioned
// update path, so image swaps land in the history journal like any
// other edit.
type MediaTools struct {
	content   *store.ContentStore
	storage   *storage.Client
	pageCache *cache.PageCache
}

// NewMediaTools creates a new MediaTools handler group. storage may be
// nil; usage entries then carry no object key.
func NewMediaTools(content *store.ContentStore, storageClient *storage.Client, pageCache *cache.PageCache) *MediaTools {
	return &MediaTools{content: content, storage: storageClient, pageCache: pageCache}
}

// Usage reports which sections and fields reference each image URL,
// drafts included. URLs served from our own bucket are annotated with
// their object key so the client can link back to the registry.
func (h *MediaTools) Usage(w http.ResponseWriter, r *http.Request) {
	sections, err := h.content.List()
	if err != nil {
		slog.Error("media usage load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type reference struct {
		Section string `json:"section"`
		Field   string `json:"field"`
		S3Key   string `json:"s3_key,omitempty"`
	}

	usage := map[string][]reference{}
	addRef := func(url, section, field string) {
		ref := reference{Section: section, Field: field}
		if h.storage != nil {
			if key, ok := h.storage.ExtractKey(url); ok {
				ref.S3Key = key
			}
		}
		usage[url] = append(usage[url], ref)
	}

	for _, s := range sections {
		fields := contentFields(s.Content)

		for _, field := range imageFields {
			if url := fields.str(field); url != "" {
				addRef(url, s.SectionKey, field)
			}
		}

		items, _ := fields["items"].([]any)
		for i, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			for _, field := range itemImageFields {
				if url, _ := item[field].(string); url != "" {
					addRef(url, s.SectionKey, itemFieldPath(i, field))
				}
			}
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{"usage": usage})
}

// Post dispatches the mutation actions.
func (h *MediaTools) Post(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action      string `json:"action"`
		SectionKey  string `json:"section_key"`
		ImageField  string `json:"image_field"`
		OldImageURL string `json:"old_image_url"`
		NewImageURL string `json:"new_image_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "update_content_image":
		h.updateContentImage(w, r, req.SectionKey, req.ImageField, req.NewImageURL)
	case "replace_website_image":
		h.replaceWebsiteImage(w, r, req.OldImageURL, req.NewImageURL)
	default:
		writeError(w, http.StatusBadRequest, "invalid action or method")
	}
}

// updateContentImage sets one image field on one section.
func (h *MediaTools) updateContentImage(w http.ResponseWriter, r *http.Request, sectionKey, imageField, newURL string) {
	if sectionKey == "" || imageField == "" || newURL == "" {
		writeError(w, http.StatusBadRequest, "section_key, image_field and new_image_url are required")
		return
	}

	section, err := h.content.FindByKey(sectionKey)
	if err != nil {
		slog.Error("find section failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if section == nil {
		writeError(w, http.StatusNotFound, "section not found")
		return
	}

	fields := contentFields(section.Content)
	fields[imageField] = newURL
	content, err := json.Marshal(fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	caller := middleware.AdminUserFromCtx(r.Context())
	updated, err := h.content.UpdateContent(sectionKey, content, &caller.ID)
	if err != nil {
		slog.Warn("content image update rejected", "key", sectionKey, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeSuccess(w, http.StatusOK, map[string]any{"section": updated})
}

// replaceWebsiteImage swaps every reference to oldURL across all
// sections. Each touched section gets its own versioned update.
func (h *MediaTools) replaceWebsiteImage(w http.ResponseWriter, r *http.Request, oldURL, newURL string) {
	if oldURL == "" || newURL == "" {
		writeError(w, http.StatusBadRequest, "old_image_url and new_image_url are required")
		return
	}

	sections, err := h.content.List()
	if err != nil {
		slog.Error("list sections failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	caller := middleware.AdminUserFromCtx(r.Context())

	var updatedKeys []string
	for _, s := range sections {
		fields := contentFields(s.Content)
		changed := false

		for _, field := range imageFields {
			if fields.str(field) == oldURL {
				fields[field] = newURL
				changed = true
			}
		}

		if items, ok := fields["items"].([]any); ok {
			for _, raw := range items {
				item, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				for _, field := range itemImageFields {
					if url, _ := item[field].(string); url == oldURL {
						item[field] = newURL
						changed = true
					}
				}
			}
		}

		if !changed {
			continue
		}

		content, err := json.Marshal(fields)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if _, err := h.content.UpdateContent(s.SectionKey, content, &caller.ID); err != nil {
			slog.Error("image replace failed", "key", s.SectionKey, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		updatedKeys = append(updatedKeys, s.SectionKey)
	}

	if len(updatedKeys) > 0 {
		h.pageCache.InvalidateAll(r.Context())
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"updated_sections": len(updatedKeys),
		"section_keys":     updatedKeys,
		"message":          "image references updated",
	})
}

func itemFieldPath(index int, field string) string {
	return fmt.Sprintf("items[%d].%s", index, field)
}
