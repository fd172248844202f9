package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spacecms/internal/store"
)

// Scoring weights for the per-section SEO checks.
const (
	scoreTitleLength = 10
	scoreMetaLength  = 15
	scoreDescLength  = 10
	scoreImageAlt    = 10
	scoreKeywords    = 5
)

// SEO serves the search-optimization endpoint. GET scores the published
// content; POST actions generate artifacts (sitemap, robots.txt, meta
// tags) or produce audit reports.
type SEO struct {
	content *store.ContentStore
	media   *store.MediaStore
	baseURL string
}

// NewSEO creates a new SEO handler group. baseURL is the canonical site
// origin used in the generated sitemap and robots.txt.
func NewSEO(content *store.ContentStore, media *store.MediaStore, baseURL string) *SEO {
	return &SEO{content: content, media: media, baseURL: strings.TrimRight(baseURL, "/")}
}

// Get dispatches GET actions.
func (h *SEO) Get(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "seo_score":
		h.score(w, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid action or method")
	}
}

// Post dispatches POST actions.
func (h *SEO) Post(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "generate_sitemap":
		h.generateSitemap(w, r)
	case "generate_robots":
		h.generateRobots(w, r)
	case "optimize_content":
		h.optimizeContent(w, r)
	case "performance_audit":
		h.performanceAudit(w, r)
	case "generate_meta_tags":
		h.generateMetaTags(w, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid action or method")
	}
}

// score rates every published section against a fixed checklist and
// returns the percentage plus a letter grade.
func (h *SEO) score(w http.ResponseWriter, r *http.Request) {
	published, err := h.content.ListPublished()
	if err != nil {
		slog.Error("seo score load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	maxPerSection := scoreTitleLength + scoreMetaLength + scoreDescLength + scoreImageAlt + scoreKeywords

	total, max := 0, 0
	issues := []string{}
	for _, s := range published {
		fields := contentFields(s.Content)
		max += maxPerSection

		if title := fields.str("title"); title != "" && len(title) <= 60 {
			total += scoreTitleLength
		} else {
			issues = append(issues, fmt.Sprintf("%s: title missing or too long", s.SectionName))
		}

		if meta := fields.str("meta_description"); len(meta) >= 120 && len(meta) <= 160 {
			total += scoreMetaLength
		} else {
			issues = append(issues, fmt.Sprintf("%s: meta description missing or wrong length", s.SectionName))
		}

		if desc := fields.str("description"); len(desc) >= 100 {
			total += scoreDescLength
		} else {
			issues = append(issues, fmt.Sprintf("%s: description too short for good SEO", s.SectionName))
		}

		if fields.str("hero_image") == "" || fields.str("hero_image_alt") != "" {
			total += scoreImageAlt
		} else {
			issues = append(issues, fmt.Sprintf("%s: image missing alt text", s.SectionName))
		}

		if fields.str("keywords") != "" || strings.Contains(strings.ToLower(fields.str("title")), "event") {
			total += scoreKeywords
		} else {
			issues = append(issues, fmt.Sprintf("%s: no relevant keywords found", s.SectionName))
		}
	}

	percentage := 0
	if max > 0 {
		percentage = total * 100 / max
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"seo_score": map[string]any{
			"score":      total,
			"max_score":  max,
			"percentage": percentage,
			"grade":      seoGrade(percentage),
			"issues":     issues,
		},
		"sections_analyzed": len(published),
	})
}

func seoGrade(percentage int) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	}
	return "F"
}

// generateSitemap builds a sitemap.xml from the published sections. The
// landing page is a single document, so sections map to anchor URLs.
func (h *SEO) generateSitemap(w http.ResponseWriter, r *http.Request) {
	published, err := h.content.ListPublished()
	if err != nil {
		slog.Error("sitemap load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var latest time.Time
	for _, s := range published {
		if s.UpdatedAt.After(latest) {
			latest = s.UpdatedAt
		}
	}
	if latest.IsZero() {
		latest = time.Now()
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	fmt.Fprintf(&b, "  <url>\n    <loc>%s/</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>weekly</changefreq>\n    <priority>1.0</priority>\n  </url>\n",
		h.baseURL, latest.Format("2006-01-02"))
	for _, s := range published {
		if s.SectionKey == "home" || s.SectionKey == "hero" {
			continue
		}
		fmt.Fprintf(&b, "  <url>\n    <loc>%s/#%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>monthly</changefreq>\n    <priority>0.8</priority>\n  </url>\n",
			h.baseURL, s.SectionKey, s.UpdatedAt.Format("2006-01-02"))
	}
	b.WriteString("</urlset>\n")

	writeSuccess(w, http.StatusOK, map[string]any{
		"sitemap": b.String(),
		"message": "sitemap generated successfully",
	})
}

// generateRobots returns the robots.txt for the public site.
func (h *SEO) generateRobots(w http.ResponseWriter, r *http.Request) {
	robots := fmt.Sprintf(`User-agent: *
Allow: /

Sitemap: %s/sitemap.xml

Crawl-delay: 1

Disallow: /admin/
`, h.baseURL)

	writeSuccess(w, http.StatusOK, map[string]any{
		"robots_txt": robots,
		"message":    "robots.txt generated successfully",
	})
}

// optimizeContent suggests copy improvements per published section.
func (h *SEO) optimizeContent(w http.ResponseWriter, r *http.Request) {
	published, err := h.content.ListPublished()
	if err != nil {
		slog.Error("optimize content load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type suggestion struct {
		Section    string `json:"section"`
		Type       string `json:"type"`
		Suggestion string `json:"suggestion"`
		Priority   string `json:"priority"`
	}

	suggestions := []suggestion{}
	for _, s := range published {
		fields := contentFields(s.Content)

		if desc := fields.str("description"); len(desc) < 100 {
			suggestions = append(suggestions, suggestion{
				Section:    s.SectionName,
				Type:       "content_length",
				Suggestion: "expand the description to at least 100 characters for better SEO",
				Priority:   "medium",
			})
		}
		if !strings.Contains(strings.ToLower(fields.str("title")), "event") {
			suggestions = append(suggestions, suggestion{
				Section:    s.SectionName,
				Type:       "keywords",
				Suggestion: "include relevant keywords like 'event' in the title",
				Priority:   "high",
			})
		}
		if !strings.Contains(strings.ToLower(fields.str("description")), "contact") {
			suggestions = append(suggestions, suggestion{
				Section:    s.SectionName,
				Type:       "cta",
				Suggestion: "add a call to action mentioning how to get in contact",
				Priority:   "low",
			})
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"suggestions":       suggestions,
		"sections_analyzed": len(published),
	})
}

// performanceAudit flags heavy media and lists standing recommendations.
func (h *SEO) performanceAudit(w http.ResponseWriter, r *http.Request) {
	assets, err := h.media.ListActive(10000, 0)
	if err != nil {
		slog.Error("performance audit load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type finding struct {
		FileName string  `json:"file_name"`
		Type     string  `json:"type"`
		Detail   string  `json:"detail"`
		SizeMB   float64 `json:"size_mb,omitempty"`
		Priority string  `json:"priority"`
	}

	findings := []finding{}
	var totalBytes int64
	for _, a := range assets {
		totalBytes += a.SizeBytes
		if !a.IsImage() {
			continue
		}
		if a.SizeBytes > optimizeHighBytes {
			findings = append(findings, finding{
				FileName: a.FileName,
				Type:     "large_image",
				Detail:   "image exceeds 1MB and will slow down page loads",
				SizeMB:   roundTo2(float64(a.SizeBytes) / (1024 * 1024)),
				Priority: "high",
			})
		} else if a.ContentType == "image/png" && a.SizeBytes > optimizeMediumBytes {
			findings = append(findings, finding{
				FileName: a.FileName,
				Type:     "format_optimization",
				Detail:   "convert large PNG files to WebP for better compression",
				Priority: "medium",
			})
		}
	}

	recommendations := []string{
		"enable lazy loading for below-the-fold images",
		"set long-lived browser caching headers for static assets",
		"minify CSS and JavaScript bundles",
		"serve media through a CDN close to visitors",
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"performance": map[string]any{
			"findings":            findings,
			"recommendations":     recommendations,
			"total_media_size_mb": roundTo2(float64(totalBytes) / (1024 * 1024)),
			"total_assets":        len(assets),
		},
	})
}

// generateMetaTags derives a meta tag set per published section, with
// site-wide fallbacks where a section carries no copy of its own.
func (h *SEO) generateMetaTags(w http.ResponseWriter, r *http.Request) {
	published, err := h.content.ListPublished()
	if err != nil {
		slog.Error("meta tags load failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	const (
		fallbackTitle    = "SPACE - Organizing Exhibitions & Conferences"
		fallbackDesc     = "SPACE is a full-service event production company creating impactful exhibitions, conferences and brand experiences."
		fallbackKeywords = "events, exhibitions, conferences, event management, Dubai, UAE"
	)

	tags := map[string]map[string]string{}
	for _, s := range published {
		fields := contentFields(s.Content)

		title := fields.str("title")
		if title == "" {
			title = fallbackTitle
		} else {
			title = title + " | SPACE"
		}

		description := fields.str("meta_description")
		if description == "" {
			description = fields.str("description")
		}
		if description == "" {
			description = fallbackDesc
		}
		if len(description) > 160 {
			description = description[:160]
		}

		keywords := fields.str("keywords")
		if keywords == "" {
			keywords = fallbackKeywords
		}

		image := fields.str("hero_image")

		tag := map[string]string{
			"title":          title,
			"description":    description,
			"keywords":       keywords,
			"og_title":       title,
			"og_description": description,
			"og_type":        "website",
			"twitter_card":   "summary_large_image",
			"twitter_title":  title,
		}
		if image != "" {
			tag["og_image"] = image
			tag["twitter_image"] = image
		}
		tags[s.SectionKey] = tag
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"meta_tags":          tags,
		"sections_processed": len(published),
	})
}
