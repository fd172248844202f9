package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Well-known setting keys seeded at first boot.
const (
	SettingGeneral = "general"
	SettingColors  = "colors"
	SettingSEO     = "seo"
	SettingFonts   = "fonts"
)

// SiteSetting is one named JSON configuration blob (general info, color
// palette, SEO defaults, font choices). Values are replaced whole.
type SiteSetting struct {
	ID           uuid.UUID       `json:"id"`
	SettingKey   string          `json:"setting_key"`
	SettingValue json.RawMessage `json:"setting_value"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
