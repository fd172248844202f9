package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"spacecms/internal/cache"
	"spacecms/internal/middleware"
	"spacecms/internal/models"
	"spacecms/internal/storage"
	"spacecms/internal/store"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000

	// defaultCategory is assigned when the client sends none.
	defaultCategory = "general"
)

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation; SVG is vector.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Media groups the media registry handlers.
type Media struct {
	media     *store.MediaStore
	storage   *storage.Client
	pageCache *cache.PageCache
}

// NewMedia creates a new Media handler group. storage may be nil, in
// which case uploads are rejected with 503.
func NewMedia(media *store.MediaStore, storageClient *storage.Client, pageCache *cache.PageCache) *Media {
	return &Media{media: media, storage: storageClient, pageCache: pageCache}
}

// List returns active assets, newest first, optionally filtered by category.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	var items []models.MediaAsset
	var err error
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = h.media.ListByCategory(category, limit, offset)
	} else {
		items, err = h.media.ListActive(limit, offset)
	}
	if err != nil {
		slog.Error("list media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"assets": items})
}

// Upload receives a multipart file, stores the bytes in object storage,
// and registers the asset. The object is uploaded first; if the registry
// insert then fails, the orphaned object is deleted best-effort so a
// request failure never leaves a row pointing at nothing.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	caller := middleware.AdminUserFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 50 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 50 MB")
		return
	}

	contentType, fileBytes, err := sniffUpload(file, header)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	if !allowedMediaTypes[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = defaultCategory
	}

	key := objectKey(category, header.Filename, contentType)

	ctx := r.Context()
	if err := h.storage.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	// Thumbnail failures never fail the upload.
	if thumbableTypes[contentType] {
		h.uploadThumbnail(ctx, key, fileBytes)
	}

	asset := &models.MediaAsset{
		FileName:    header.Filename,
		S3Key:       key,
		FileURL:     h.storage.FileURL(key),
		ContentType: contentType,
		SizeBytes:   int64(len(fileBytes)),
		AltText:     r.FormValue("alt_text"),
		Category:    category,
		UploadedBy:  &caller.ID,
	}

	created, err := h.media.Create(asset)
	if err != nil {
		slog.Error("media db insert failed", "error", err, "key", key)
		// Compensate: the uploaded object has no row, remove it.
		if derr := h.storage.Delete(ctx, key); derr != nil {
			slog.Warn("compensating s3 delete failed", "error", derr, "key", key)
		}
		writeError(w, http.StatusInternalServerError, "failed to save file metadata")
		return
	}

	h.pageCache.InvalidateAll(ctx)
	writeSuccess(w, http.StatusCreated, map[string]any{"asset": created})
}

// Replace uploads a new file for an existing asset. The row keeps its ID
// and is pointed at the new object; the previous object stays in the
// bucket until the janitor collects it.
func (h *Media) Replace(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	existing, err := h.media.FindByID(id)
	if err != nil {
		slog.Error("media lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 50 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	contentType, fileBytes, err := sniffUpload(file, header)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	if !allowedMediaTypes[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	key := objectKey(existing.Category, header.Filename, contentType)

	ctx := r.Context()
	if err := h.storage.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	if thumbableTypes[contentType] {
		h.uploadThumbnail(ctx, key, fileBytes)
	}

	replaced, err := h.media.ReplaceFile(id, header.Filename, key,
		h.storage.FileURL(key), contentType, int64(len(fileBytes)))
	if err != nil || replaced == nil {
		slog.Error("media replace failed", "error", err, "key", key)
		if derr := h.storage.Delete(ctx, key); derr != nil {
			slog.Warn("compensating s3 delete failed", "error", derr, "key", key)
		}
		writeError(w, http.StatusInternalServerError, "failed to update file metadata")
		return
	}

	h.pageCache.InvalidateAll(ctx)
	writeSuccess(w, http.StatusOK, map[string]any{"asset": replaced})
}

// UpdateMeta changes the editable metadata (alt text, category).
func (h *Media) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	var req struct {
		AltText  string `json:"alt_text"`
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Category == "" {
		req.Category = defaultCategory
	}

	if err := h.media.UpdateMeta(id, req.AltText, req.Category); err != nil {
		slog.Error("media meta update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

// Delete soft-deletes an asset: the row is flagged inactive and the
// stored object is left untouched.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	if err := h.media.SoftDelete(id); err != nil {
		if strings.Contains(err.Error(), "no asset") {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		slog.Error("media soft delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeSuccess(w, http.StatusOK, nil)
}

// uploadThumbnail generates and stores a JPEG thumbnail next to the
// original, under "<key>_thumb.jpg". Best effort.
func (h *Media) uploadThumbnail(ctx context.Context, key string, fileBytes []byte) {
	thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "key", key)
		return
	}
	if thumbData == nil {
		return
	}
	tk := thumbKeyFor(key)
	if err := h.storage.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
		slog.Warn("thumbnail upload failed", "error", err, "key", tk)
	}
}

// sniffUpload reads the whole upload into memory and determines its real
// content type from the leading bytes rather than the client's header.
func sniffUpload(file multipart.File, header *multipart.FileHeader) (string, []byte, error) {
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}

	contentType := http.DetectContentType(fileBytes)
	if idx := strings.IndexByte(contentType, ';'); idx != -1 {
		contentType = contentType[:idx]
	}

	// SVG detection: DetectContentType reports xml or plain text for SVGs.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	return contentType, fileBytes, nil
}

// objectKey builds the storage key: <category>/<unix-ms>-<short-id><ext>.
// The timestamp keeps listings roughly chronological; the random suffix
// prevents collisions between same-millisecond uploads.
func objectKey(category, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	return fmt.Sprintf("%s/%d-%s%s",
		category, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

// thumbKeyFor derives the thumbnail key from an original's key.
func thumbKeyFor(key string) string {
	return strings.TrimSuffix(key, filepath.Ext(key)) + "_thumb.jpg"
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image is
// already smaller than maxWidth.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Check for image bombs.
	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	// Skip thumbnail if image is already small enough.
	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	// Seek back to start for full decode.
	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
	} else {
		return nil, fmt.Errorf("source does not support seeking")
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Calculate thumbnail dimensions preserving aspect ratio.
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	// Resize using CatmullRom (high quality).
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
