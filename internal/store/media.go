package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"spacecms/internal/models"
)

// MediaStore handles the media asset registry. Rows reference objects in
// S3-compatible storage; deleting through the API only flags rows inactive.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, file_name, s3_key, file_url, content_type, size_bytes,
	alt_text, category, is_active, uploaded_by, created_at, updated_at`

// scanMedia scans a media asset row from the result set.
func scanMedia(scanner interface{ Scan(...any) error }) (*models.MediaAsset, error) {
	var m models.MediaAsset
	err := scanner.Scan(
		&m.ID, &m.FileName, &m.S3Key, &m.FileURL, &m.ContentType, &m.SizeBytes,
		&m.AltText, &m.Category, &m.IsActive, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media asset record and returns it with the generated ID.
func (s *MediaStore) Create(m *models.MediaAsset) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`
		INSERT INTO media_assets (file_name, s3_key, file_url, content_type,
			size_bytes, alt_text, category, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+mediaColumns,
		m.FileName, m.S3Key, m.FileURL, m.ContentType,
		m.SizeBytes, m.AltText, m.Category, m.UploadedBy,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media asset by its UUID. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`SELECT `+mediaColumns+` FROM media_assets WHERE id = $1`, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media asset by id: %w", err)
	}
	return m, nil
}

// ListActive returns active assets ordered by creation date, with pagination.
// Soft-deleted assets never appear here.
func (s *MediaStore) ListActive(limit, offset int) ([]models.MediaAsset, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media_assets
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list active media: %w", err)
	}
	defer rows.Close()

	var items []models.MediaAsset
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media asset: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// ListByCategory returns active assets in one category, newest first.
func (s *MediaStore) ListByCategory(category string, limit, offset int) ([]models.MediaAsset, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media_assets
		WHERE is_active = TRUE AND category = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media by category: %w", err)
	}
	defer rows.Close()

	var items []models.MediaAsset
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media asset: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// AllKeys returns the storage keys of every registry row, active and
// inactive. The janitor diffs this set against the bucket listing; a
// soft-deleted asset still pins its object.
func (s *MediaStore) AllKeys() (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT s3_key FROM media_assets`)
	if err != nil {
		return nil, fmt.Errorf("list media keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan media key: %w", err)
		}
		keys[k] = true
	}
	return keys, rows.Err()
}

// ReplaceFile points an existing row at a freshly uploaded object,
// updating the file metadata in place. The previous object stays in the
// bucket until the janitor collects it.
func (s *MediaStore) ReplaceFile(id uuid.UUID, fileName, s3Key, fileURL, contentType string, sizeBytes int64) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`
		UPDATE media_assets
		SET file_name = $1, s3_key = $2, file_url = $3, content_type = $4,
		    size_bytes = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+mediaColumns,
		fileName, s3Key, fileURL, contentType, sizeBytes, id,
	)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replace media file: %w", err)
	}
	return m, nil
}

// UpdateMeta updates the editable metadata fields (alt text, category).
func (s *MediaStore) UpdateMeta(id uuid.UUID, altText, category string) error {
	_, err := s.db.Exec(`
		UPDATE media_assets SET alt_text = $1, category = $2, updated_at = NOW()
		WHERE id = $3
	`, altText, category, id)
	if err != nil {
		return fmt.Errorf("update media meta: %w", err)
	}
	return nil
}

// SoftDelete flags an asset inactive. The row and the stored object survive.
func (s *MediaStore) SoftDelete(id uuid.UUID) error {
	res, err := s.db.Exec(`
		UPDATE media_assets SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete media: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("soft delete media: no asset %s", id)
	}
	return nil
}

// HardDelete removes a registry row entirely, returning it so the caller
// can decide about the object bytes. Tests and maintenance only.
func (s *MediaStore) HardDelete(id uuid.UUID) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`
		DELETE FROM media_assets WHERE id = $1
		RETURNING `+mediaColumns, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hard delete media: %w", err)
	}
	return m, nil
}

// CountActive returns the number of active media assets.
func (s *MediaStore) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM media_assets WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active media: %w", err)
	}
	return count, nil
}

// SizeByCategory returns total active bytes grouped by category, for the
// analytics endpoint.
func (s *MediaStore) SizeByCategory() (map[string]int64, error) {
	rows, err := s.db.Query(`
		SELECT category, COALESCE(SUM(size_bytes), 0)
		FROM media_assets
		WHERE is_active = TRUE
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("media size by category: %w", err)
	}
	defer rows.Close()

	sizes := make(map[string]int64)
	for rows.Next() {
		var cat string
		var size int64
		if err := rows.Scan(&cat, &size); err != nil {
			return nil, fmt.Errorf("scan media size: %w", err)
		}
		sizes[cat] = size
	}
	return sizes, rows.Err()
}
