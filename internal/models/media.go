package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaAsset is the registry entry for one uploaded file. The bytes live
// in object storage under S3Key; the row carries the metadata. Rows are
// never hard-deleted through the API, only flagged inactive.
type MediaAsset struct {
	ID          uuid.UUID  `json:"id"`
	FileName    string     `json:"file_name"`
	S3Key       string     `json:"s3_key"`
	FileURL     string     `json:"file_url"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	AltText     string     `json:"alt_text"`
	Category    string     `json:"category"`
	IsActive    bool       `json:"is_active"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsImage reports whether the asset is an image based on its content type.
func (m *MediaAsset) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// HumanSize formats the byte size for display (e.g. "1.5 MB").
func (m *MediaAsset) HumanSize() string {
	const unit = 1024
	if m.SizeBytes < unit {
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
	div, exp := int64(unit), 0
	for n := m.SizeBytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(m.SizeBytes)/float64(div), "KMGTPE"[exp])
}
