package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"spacecms/internal/models"
	"spacecms/internal/sections"
)

// Seed populates the database with initial development data: a default
// super admin, one row per landing page section (unpublished, holding the
// default content), and the four settings blobs. Production deployments
// bootstrap the first admin through the registration endpoint instead.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return fmt.Errorf("seed check admin_users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// First user takes the top role. 2FA is enrolled on first login.
	_, err = db.Exec(`
		INSERT INTO admin_users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@space.local", string(hash), "Admin", models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, key := range sections.Keys {
		_, err = db.Exec(`
			INSERT INTO content_sections (section_key, section_name, content)
			VALUES ($1, $2, $3)
			ON CONFLICT (section_key) DO NOTHING
		`, key, sectionName(key), []byte(sections.DefaultFor(key)))
		if err != nil {
			return fmt.Errorf("seed section %s: %w", key, err)
		}
	}

	settings := map[string]string{
		models.SettingGeneral: `{"site_name":"SPACE","tagline":"We Create the Space for Impact"}`,
		models.SettingColors:  `{"primary":"#1a1a1a","accent":"#7CFC00","background":"#ffffff"}`,
		models.SettingSEO:     `{"title":"SPACE | Event Production","description":"Full-service event production company."}`,
		models.SettingFonts:   `{"heading":"Montserrat","body":"Inter"}`,
	}
	for key, value := range settings {
		_, err = db.Exec(`
			INSERT INTO site_settings (setting_key, setting_value)
			VALUES ($1, $2)
			ON CONFLICT (setting_key) DO NOTHING
		`, key, value)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@space.local",
		"password", "admin",
	)

	return nil
}

// sectionName turns a section_key into its display name.
func sectionName(key string) string {
	switch key {
	case sections.KeyHero:
		return "Hero"
	case sections.KeyAbout:
		return "About"
	case sections.KeyServices:
		return "Services"
	case sections.KeyWork:
		return "Work"
	case sections.KeyGreenLifeExpo:
		return "Green Life Expo"
	case sections.KeyContact:
		return "Contact"
	case sections.KeyFooter:
		return "Footer"
	}
	return key
}
