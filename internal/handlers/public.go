package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"spacecms/internal/cache"
	"spacecms/internal/sections"
	"spacecms/internal/store"
	"spacecms/web"
)

// Public groups the handlers for the public-facing site. The landing page
// and the merged content payload go through the short-TTL Valkey cache,
// so published edits surface within 30 seconds without a DB read per
// visitor. When the store is unreachable the page still renders from the
// hard-coded defaults.
type Public struct {
	content   *store.ContentStore
	settings  *store.SiteSettingStore
	pageCache *cache.PageCache
	tmpl      *template.Template
}

// landingData is the template payload: one typed struct per section plus
// the SEO settings blob.
type landingData struct {
	Hero          sections.Hero
	About         sections.About
	Services      sections.Services
	Work          sections.Work
	GreenLifeExpo sections.GreenLifeExpo
	Contact       sections.Contact
	Footer        sections.Footer
	SEO           seoSettings
}

type seoSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewPublic creates a new Public handler group. Panics if the embedded
// landing template does not parse, which is a build defect.
func NewPublic(content *store.ContentStore, settings *store.SiteSettingStore, pageCache *cache.PageCache) *Public {
	tmpl := template.Must(template.ParseFS(web.TemplateFS, "templates/landing.html"))
	return &Public{
		content:   content,
		settings:  settings,
		pageCache: pageCache,
		tmpl:      tmpl,
	}
}

// Landing renders the public landing page.
func (p *Public) Landing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomepageKey()); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	merged, fromStore := p.mergedSections(ctx)
	data := p.buildLandingData(merged)

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		slog.Error("landing render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Only cache renders backed by the store; a defaults-only page served
	// during an outage should not linger once the DB comes back.
	if fromStore {
		p.pageCache.Set(ctx, cache.HomepageKey(), buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ContentJSON returns the same merged published content as JSON, for SPA
// consumers: section_key to content plus the settings map.
func (p *Public) ContentJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.ContentKey()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	merged, fromStore := p.mergedSections(ctx)

	settings := map[string]json.RawMessage{}
	if all, err := p.settings.All(); err == nil {
		settings = all
	} else {
		slog.Warn("settings load failed, serving sections only", "error", err)
	}

	payload, err := json.Marshal(map[string]any{
		"success":  true,
		"sections": merged,
		"settings": settings,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if fromStore {
		p.pageCache.Set(ctx, cache.ContentKey(), payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Health is the liveness endpoint.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"status": "ok"})
}

// mergedSections overlays published rows onto the hard-coded defaults.
// Reports whether the store contributed, so callers can decide about
// caching a defaults-only result.
func (p *Public) mergedSections(ctx context.Context) (map[string]json.RawMessage, bool) {
	merged := sections.Defaults()

	published, err := p.content.ListPublished()
	if err != nil {
		slog.Warn("published sections load failed, serving defaults", "error", err)
		return merged, false
	}

	for _, section := range published {
		merged[section.SectionKey] = section.Content
	}
	return merged, true
}

// buildLandingData decodes the merged raw sections into the typed template
// payload. Rows that fail to decode keep their defaults.
func (p *Public) buildLandingData(merged map[string]json.RawMessage) landingData {
	var data landingData

	decode := func(key string, dst any) {
		raw, ok := merged[key]
		if !ok {
			raw = sections.DefaultFor(key)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			slog.Warn("section decode failed, using default", "key", key, "error", err)
			json.Unmarshal(sections.DefaultFor(key), dst)
		}
	}

	decode(sections.KeyHero, &data.Hero)
	decode(sections.KeyAbout, &data.About)
	decode(sections.KeyServices, &data.Services)
	decode(sections.KeyWork, &data.Work)
	decode(sections.KeyGreenLifeExpo, &data.GreenLifeExpo)
	decode(sections.KeyContact, &data.Contact)
	decode(sections.KeyFooter, &data.Footer)

	data.SEO = seoSettings{Title: "SPACE | Event Production"}
	if setting, err := p.settings.Get("seo"); err == nil && setting != nil {
		var seo seoSettings
		if err := json.Unmarshal(setting.SettingValue, &seo); err == nil && seo.Title != "" {
			data.SEO = seo
		}
	}

	return data
}
