package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentSection is one editable block of the public site, keyed by a
// stable section_key (hero, about, services, ...). Content is the raw
// JSON payload; the sections package knows its shape per key.
type ContentSection struct {
	ID          uuid.UUID       `json:"id"`
	SectionKey  string          `json:"section_key"`
	SectionName string          `json:"section_name"`
	Content     json.RawMessage `json:"content"`
	IsPublished bool            `json:"is_published"`
	Version     int             `json:"version"`
	UpdatedBy   *uuid.UUID      `json:"updated_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// History actions recorded in content_history.
const (
	HistoryActionUpdate = "update"
)

// ContentHistory is an append-only journal row: the full content snapshot
// a section held at a given version, and who wrote it.
type ContentHistory struct {
	ID         uuid.UUID       `json:"id"`
	SectionKey string          `json:"section_key"`
	Content    json.RawMessage `json:"content"`
	Version    int             `json:"version"`
	Action     string          `json:"action"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
