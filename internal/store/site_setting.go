package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"spacecms/internal/models"
)

// ErrInvalidValue marks setting writes rejected because the payload is
// not valid JSON, so handlers can tell them apart from store failures.
var ErrInvalidValue = errors.New("invalid json value")

// SiteSettingStore manages the named JSON configuration blobs.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// All returns every setting as a key to raw-JSON map.
func (s *SiteSettingStore) All() (map[string]json.RawMessage, error) {
	rows, err := s.db.Query(`SELECT setting_key, setting_value FROM site_settings ORDER BY setting_key`)
	if err != nil {
		return nil, fmt.Errorf("list site settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan site setting: %w", err)
		}
		settings[k] = json.RawMessage(v)
	}
	return settings, rows.Err()
}

// Get returns a single setting by key. Returns nil if not found.
func (s *SiteSettingStore) Get(key string) (*models.SiteSetting, error) {
	setting := &models.SiteSetting{}
	var value []byte
	err := s.db.QueryRow(`
		SELECT id, setting_key, setting_value, updated_at
		FROM site_settings WHERE setting_key = $1
	`, key).Scan(&setting.ID, &setting.SettingKey, &value, &setting.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get site setting: %w", err)
	}
	setting.SettingValue = json.RawMessage(value)
	return setting, nil
}

// Set upserts a setting, replacing the whole JSON value.
func (s *SiteSettingStore) Set(key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("set site setting %q: %w", key, ErrInvalidValue)
	}
	_, err := s.db.Exec(`
		INSERT INTO site_settings (setting_key, setting_value)
		VALUES ($1, $2)
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
	`, key, []byte(value))
	if err != nil {
		return fmt.Errorf("set site setting: %w", err)
	}
	return nil
}

// Delete removes a setting by key. Used by tests.
func (s *SiteSettingStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM site_settings WHERE setting_key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete site setting: %w", err)
	}
	return nil
}
