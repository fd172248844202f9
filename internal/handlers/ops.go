package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"spacecms/internal/models"
	"spacecms/internal/storage"
	"spacecms/internal/store"
)

// Size thresholds for image optimization advice.
const (
	optimizeHighBytes   = 1 << 20   // 1 MB
	optimizeMediumBytes = 500 << 10 // 500 KB
)

// Ops serves the operational endpoint: a single path dispatching on an
// action parameter, mirroring the admin dashboard's maintenance tools.
// GET actions: analytics, backup, health. POST actions: optimize_images,
// seo_audit.
type Ops struct {
	db       *sql.DB
	content  *store.ContentStore
	media    *store.MediaStore
	users    *store.AdminUserStore
	settings *store.SiteSettingStore
	storage  *storage.Client
}

// NewOps creates a new Ops handler group.
func NewOps(db *sql.DB, content *store.ContentStore, media *store.MediaStore, users *store.AdminUserStore, settings *store.SiteSettingStore, storageClient *storage.Client) *Ops {
	return &Ops{
		db:       db,
		content:  content,
		media:    media,
		users:    users,
		settings: settings,
		storage:  storageClient,
	}
}

// Get dispatches GET actions.
func (h *Ops) Get(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "analytics":
		h.analytics(w, r)
	case "backup":
		h.backup(w, r)
	case "health":
		h.health(w, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid action or method")
	}
}

// Post dispatches POST actions.
func (h *Ops) Post(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "optimize_images":
		h.optimizeImages(w, r)
	case "seo_audit":
		h.seoAudit(w, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid action or method")
	}
}

// analytics aggregates content, media, and user counters for the
// dashboard overview.
func (h *Ops) analytics(w http.ResponseWriter, r *http.Request) {
	content := map[string]any{
		"total_sections":     0,
		"published_sections": 0,
		"draft_sections":     0,
		"last_updated":       nil,
	}
	if sections, err := h.content.List(); err == nil {
		var published int
		var lastUpdated time.Time
		for _, s := range sections {
			if s.IsPublished {
				published++
			}
			if s.UpdatedAt.After(lastUpdated) {
				lastUpdated = s.UpdatedAt
			}
		}
		content["total_sections"] = len(sections)
		content["published_sections"] = published
		content["draft_sections"] = len(sections) - published
		if !lastUpdated.IsZero() {
			content["last_updated"] = lastUpdated
		}
	} else {
		slog.Warn("analytics content load failed", "error", err)
	}

	media := map[string]any{
		"total_assets":        0,
		"total_size_mb":       int64(0),
		"size_by_category_mb": map[string]int64{},
		"recent_uploads":      []any{},
	}
	if total, err := h.media.CountActive(); err == nil {
		media["total_assets"] = total
	} else {
		slog.Warn("analytics media count failed", "error", err)
	}
	if sizes, err := h.media.SizeByCategory(); err == nil {
		var totalBytes int64
		perCategory := make(map[string]int64, len(sizes))
		for category, size := range sizes {
			totalBytes += size
			perCategory[category] = size / (1024 * 1024)
		}
		media["total_size_mb"] = totalBytes / (1024 * 1024)
		media["size_by_category_mb"] = perCategory
	} else {
		slog.Warn("analytics media sizes failed", "error", err)
	}
	if assets, err := h.media.ListActive(10, 0); err == nil {
		type recentUpload struct {
			FileName  string    `json:"file_name"`
			Category  string    `json:"category"`
			Size      string    `json:"size"`
			CreatedAt time.Time `json:"created_at"`
		}
		recent := []recentUpload{}
		for _, a := range assets {
			recent = append(recent, recentUpload{
				FileName:  a.FileName,
				Category:  a.Category,
				Size:      a.HumanSize(),
				CreatedAt: a.CreatedAt,
			})
		}
		media["recent_uploads"] = recent
	} else {
		slog.Warn("analytics media load failed", "error", err)
	}

	users := map[string]any{
		"total_admins":  0,
		"active_admins": 0,
		"recent_logins": []any{},
	}
	if admins, err := h.users.List(); err == nil {
		var active int
		type recentLogin struct {
			Email     string      `json:"email"`
			Role      models.Role `json:"role"`
			LastLogin time.Time   `json:"last_login"`
		}
		var logins []recentLogin
		for _, u := range admins {
			if u.IsActive {
				active++
			}
			if u.LastLoginAt != nil {
				logins = append(logins, recentLogin{Email: u.Email, Role: u.Role, LastLogin: *u.LastLoginAt})
			}
		}
		// Newest logins first, capped at five.
		for i := 0; i < len(logins); i++ {
			for j := i + 1; j < len(logins); j++ {
				if logins[j].LastLogin.After(logins[i].LastLogin) {
					logins[i], logins[j] = logins[j], logins[i]
				}
			}
		}
		if len(logins) > 5 {
			logins = logins[:5]
		}
		users["total_admins"] = len(admins)
		users["active_admins"] = active
		if logins != nil {
			users["recent_logins"] = logins
		}
	} else {
		slog.Warn("analytics users load failed", "error", err)
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"analytics": map[string]any{
			"content": content,
			"media":   media,
			"users":   users,
		},
		"generated_at": time.Now().UTC(),
	})
}

// backup exports all critical metadata as one JSON document. User rows
// serialize without password hashes or TOTP secrets.
func (h *Ops) backup(w http.ResponseWriter, r *http.Request) {
	sections, err := h.content.List()
	if err != nil {
		slog.Error("backup sections failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	settings, err := h.settings.All()
	if err != nil {
		slog.Error("backup settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	assets, err := h.media.ListActive(10000, 0)
	if err != nil {
		slog.Error("backup media failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	admins, err := h.users.List()
	if err != nil {
		slog.Error("backup users failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"backup": map[string]any{
			"timestamp":        time.Now().UTC(),
			"content_sections": sections,
			"site_settings":    settings,
			"media_assets":     assets,
			"admin_users":      admins,
		},
		"message": "backup created successfully",
	})
}

// health reports component status: database ping and storage reachability.
func (h *Ops) health(w http.ResponseWriter, r *http.Request) {
	type check struct {
		Component string `json:"component"`
		Status    string `json:"status"`
		Message   string `json:"message"`
	}

	overall := "healthy"
	dbStatus := "healthy"
	storageStatus := "healthy"
	var checks []check

	if err := h.db.PingContext(r.Context()); err != nil {
		dbStatus = "unhealthy"
		overall = "degraded"
		checks = append(checks, check{"database", "unhealthy", err.Error()})
	} else {
		checks = append(checks, check{"database", "healthy", "database connection successful"})
	}

	if h.storage == nil {
		storageStatus = "degraded"
		checks = append(checks, check{"storage", "warning", "object storage not configured"})
	} else if _, err := h.storage.List(r.Context(), ""); err != nil {
		storageStatus = "unhealthy"
		overall = "degraded"
		checks = append(checks, check{"storage", "unhealthy", err.Error()})
	} else {
		checks = append(checks, check{"storage", "healthy", "storage bucket accessible"})
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"health": map[string]any{
			"database": dbStatus,
			"storage":  storageStatus,
			"overall":  overall,
			"checks":   checks,
		},
		"timestamp": time.Now().UTC(),
	})
}

// optimizeImages flags active images that would benefit from compression.
func (h *Ops) optimizeImages(w http.ResponseWriter, r *http.Request) {
	assets, err := h.media.ListActive(10000, 0)
	if err != nil {
		slog.Error("optimize images load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type recommendation struct {
		FileName       string  `json:"file_name"`
		CurrentSizeMB  float64 `json:"current_size_mb"`
		Recommendation string  `json:"recommendation"`
		Priority       string  `json:"priority"`
	}

	recommendations := []recommendation{}
	total := 0
	for _, a := range assets {
		if !a.IsImage() {
			continue
		}
		total++
		sizeMB := float64(a.SizeBytes) / (1024 * 1024)
		switch {
		case a.SizeBytes > optimizeHighBytes:
			recommendations = append(recommendations, recommendation{
				FileName:       a.FileName,
				CurrentSizeMB:  roundTo2(sizeMB),
				Recommendation: "consider compressing this image to improve loading speed",
				Priority:       "high",
			})
		case a.SizeBytes > optimizeMediumBytes:
			recommendations = append(recommendations, recommendation{
				FileName:       a.FileName,
				CurrentSizeMB:  roundTo2(sizeMB),
				Recommendation: "this image could benefit from optimization",
				Priority:       "medium",
			})
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"recommendations": recommendations,
		"total_images":    total,
	})
}

// seoAudit scans published section content for common SEO problems.
func (h *Ops) seoAudit(w http.ResponseWriter, r *http.Request) {
	sections, err := h.content.ListPublished()
	if err != nil {
		slog.Error("seo audit load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type issue struct {
		Section        string `json:"section"`
		Issue          string `json:"issue"`
		Recommendation string `json:"recommendation"`
		Severity       string `json:"severity"`
	}

	issues := []issue{}
	for _, s := range sections {
		fields := contentFields(s.Content)

		if meta := fields.str("meta_description"); len(meta) < 120 {
			issues = append(issues, issue{
				Section:        s.SectionName,
				Issue:          "meta description missing or too short",
				Recommendation: "add a meta description of 120-160 characters",
				Severity:       "medium",
			})
		}
		if fields.str("hero_image") != "" && fields.str("hero_image_alt") == "" {
			issues = append(issues, issue{
				Section:        s.SectionName,
				Issue:          "image missing alt text",
				Recommendation: "add descriptive alt text for accessibility and SEO",
				Severity:       "high",
			})
		}
		if title := fields.str("title"); len(title) > 60 {
			issues = append(issues, issue{
				Section:        s.SectionName,
				Issue:          "title too long for search results",
				Recommendation: "keep titles under 60 characters",
				Severity:       "low",
			})
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"seo_issues":             issues,
		"total_sections_audited": len(sections),
	})
}

// fieldMap gives loose, nil-safe access to a section's JSON content for
// audits that look at generic field names.
type fieldMap map[string]any

func contentFields(raw json.RawMessage) fieldMap {
	var m fieldMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return fieldMap{}
	}
	return m
}

func (m fieldMap) str(key string) string {
	s, _ := m[key].(string)
	return s
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
