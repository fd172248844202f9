package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"spacecms/internal/models"
	"spacecms/internal/sections"
)

// ContentStore handles content sections and their history journal.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// sectionColumns lists the columns selected in content section queries.
const sectionColumns = `id, section_key, section_name, content, is_published,
	version, updated_by, created_at, updated_at`

// historyColumns lists the columns selected in content history queries.
const historyColumns = `id, section_key, content, version, action, created_by, created_at`

// scanSection scans a content section row from the result set.
func scanSection(scanner interface{ Scan(...any) error }) (*models.ContentSection, error) {
	var c models.ContentSection
	var content []byte
	err := scanner.Scan(
		&c.ID, &c.SectionKey, &c.SectionName, &content, &c.IsPublished,
		&c.Version, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Content = json.RawMessage(content)
	return &c, nil
}

// scanHistory scans a content history row from the result set.
func scanHistory(scanner interface{ Scan(...any) error }) (*models.ContentHistory, error) {
	var h models.ContentHistory
	var content []byte
	err := scanner.Scan(
		&h.ID, &h.SectionKey, &content, &h.Version, &h.Action, &h.CreatedBy, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Content = json.RawMessage(content)
	return &h, nil
}

// List returns all content sections ordered by key.
func (s *ContentStore) List() ([]models.ContentSection, error) {
	rows, err := s.db.Query(`SELECT ` + sectionColumns + ` FROM content_sections ORDER BY section_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list content sections: %w", err)
	}
	defer rows.Close()

	var items []models.ContentSection
	for rows.Next() {
		c, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content section: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListPublished returns only the published sections, for the public page.
func (s *ContentStore) ListPublished() ([]models.ContentSection, error) {
	rows, err := s.db.Query(`
		SELECT ` + sectionColumns + `
		FROM content_sections
		WHERE is_published = TRUE
		ORDER BY section_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list published sections: %w", err)
	}
	defer rows.Close()

	var items []models.ContentSection
	for rows.Next() {
		c, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content section: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByKey retrieves a content section by its section_key. Returns nil if not found.
func (s *ContentStore) FindByKey(sectionKey string) (*models.ContentSection, error) {
	row := s.db.QueryRow(`SELECT `+sectionColumns+` FROM content_sections WHERE section_key = $1`, sectionKey)
	c, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section by key: %w", err)
	}
	return c, nil
}

// CreateSection inserts a new section row at version 1 with an initial
// history entry, in one transaction.
func (s *ContentStore) CreateSection(sectionKey, sectionName string, content json.RawMessage, createdBy *uuid.UUID) (*models.ContentSection, error) {
	if err := sections.Validate(sectionKey, content); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create section: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO content_sections (section_key, section_name, content, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sectionColumns,
		sectionKey, sectionName, []byte(content), createdBy,
	)
	c, err := scanSection(row)
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO content_history (section_key, content, version, action, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, sectionKey, []byte(content), c.Version, models.HistoryActionUpdate, createdBy)
	if err != nil {
		return nil, fmt.Errorf("journal section create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create section: %w", err)
	}
	return c, nil
}

// UpdateContent replaces a section's content, bumps its version by one, and
// appends the matching history row. The bump and the journal entry commit
// together or not at all. Unknown section keys are an error.
func (s *ContentStore) UpdateContent(sectionKey string, content json.RawMessage, updatedBy *uuid.UUID) (*models.ContentSection, error) {
	if err := sections.Validate(sectionKey, content); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update content: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		UPDATE content_sections
		SET content = $1, version = version + 1, updated_by = $2, updated_at = NOW()
		WHERE section_key = $3
		RETURNING `+sectionColumns,
		[]byte(content), updatedBy, sectionKey,
	)
	c, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update content: unknown section %q", sectionKey)
	}
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO content_history (section_key, content, version, action, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, sectionKey, []byte(content), c.Version, models.HistoryActionUpdate, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("journal content update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update content: %w", err)
	}
	return c, nil
}

// SetPublished flips a section's visibility flag. The version and the
// history journal are untouched: publishing answers "is it visible",
// the journal answers "what did it say".
func (s *ContentStore) SetPublished(sectionKey string, published bool) error {
	res, err := s.db.Exec(`
		UPDATE content_sections SET is_published = $1, updated_at = NOW()
		WHERE section_key = $2
	`, published, sectionKey)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set published: unknown section %q", sectionKey)
	}
	return nil
}

// HistoryForKey returns the journal for one section, newest first.
func (s *ContentStore) HistoryForKey(sectionKey string, limit int) ([]models.ContentHistory, error) {
	rows, err := s.db.Query(`
		SELECT `+historyColumns+`
		FROM content_history
		WHERE section_key = $1
		ORDER BY created_at DESC, version DESC
		LIMIT $2
	`, sectionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list history for key: %w", err)
	}
	defer rows.Close()

	var items []models.ContentHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content history: %w", err)
		}
		items = append(items, *h)
	}
	return items, rows.Err()
}

// RecentHistory returns the latest journal entries across all sections.
func (s *ContentStore) RecentHistory(limit int) ([]models.ContentHistory, error) {
	rows, err := s.db.Query(`
		SELECT `+historyColumns+`
		FROM content_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent history: %w", err)
	}
	defer rows.Close()

	var items []models.ContentHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content history: %w", err)
		}
		items = append(items, *h)
	}
	return items, rows.Err()
}

// HistoryCount returns the number of journal rows for one section.
func (s *ContentStore) HistoryCount(sectionKey string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM content_history WHERE section_key = $1
	`, sectionKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

// Delete removes a section and its history. Used by tests and admin cleanup.
func (s *ContentStore) Delete(sectionKey string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete section: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM content_history WHERE section_key = $1`, sectionKey); err != nil {
		return fmt.Errorf("delete section history: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM content_sections WHERE section_key = $1`, sectionKey); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return tx.Commit()
}
