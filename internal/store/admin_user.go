// Package store provides database access methods for all spacecms
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"spacecms/internal/models"
)

// AdminUserStore handles all admin-user database operations.
type AdminUserStore struct {
	db *sql.DB
}

// NewAdminUserStore creates a new AdminUserStore with the given database connection.
func NewAdminUserStore(db *sql.DB) *AdminUserStore {
	return &AdminUserStore{db: db}
}

// adminUserColumns lists the columns selected in admin user queries.
const adminUserColumns = `id, email, password_hash, display_name, role, is_active,
	totp_secret, totp_enabled, last_login_at, created_at, updated_at`

// scanAdminUser scans an admin user row from the result set.
func scanAdminUser(scanner interface{ Scan(...any) error }) (*models.AdminUser, error) {
	var u models.AdminUser
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsActive,
		&u.TOTPSecret, &u.TOTPEnabled, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves an admin user by email. Returns nil if not found.
func (s *AdminUserStore) FindByEmail(email string) (*models.AdminUser, error) {
	row := s.db.QueryRow(`SELECT `+adminUserColumns+` FROM admin_users WHERE email = $1`, email)
	u, err := scanAdminUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves an admin user by UUID. Returns nil if not found.
func (s *AdminUserStore) FindByID(id uuid.UUID) (*models.AdminUser, error) {
	row := s.db.QueryRow(`SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id)
	u, err := scanAdminUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin user by id: %w", err)
	}
	return u, nil
}

// List returns all admin users ordered by creation date.
func (s *AdminUserStore) List() ([]models.AdminUser, error) {
	rows, err := s.db.Query(`SELECT ` + adminUserColumns + ` FROM admin_users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	defer rows.Close()

	var users []models.AdminUser
	for rows.Next() {
		u, err := scanAdminUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Count returns the total number of admin users.
func (s *AdminUserStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count admin users: %w", err)
	}
	return count, nil
}

// Register inserts the bootstrap admin user. The role is decided inside the
// INSERT itself: super_admin when the table is empty, editor otherwise, so
// two concurrent first registrations cannot both end up super_admin.
func (s *AdminUserStore) Register(email, password, displayName string) (*models.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO admin_users (email, password_hash, display_name, role)
		SELECT $1, $2, $3,
		       CASE WHEN (SELECT COUNT(*) FROM admin_users) = 0
		            THEN 'super_admin' ELSE 'editor' END
		RETURNING `+adminUserColumns,
		email, string(hash), displayName,
	)
	u, err := scanAdminUser(row)
	if err != nil {
		return nil, fmt.Errorf("register admin user: %w", err)
	}
	return u, nil
}

// Create inserts a new admin user with an explicit role, for the
// user-management API. The caller enforces the role hierarchy.
func (s *AdminUserStore) Create(email, password, displayName string, role models.Role) (*models.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO admin_users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+adminUserColumns,
		email, string(hash), displayName, role,
	)
	u, err := scanAdminUser(row)
	if err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	return u, nil
}

// SetActive toggles the is_active flag for an admin user.
func (s *AdminUserStore) SetActive(id uuid.UUID, active bool) error {
	_, err := s.db.Exec(`
		UPDATE admin_users SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set admin user active: %w", err)
	}
	return nil
}

// TouchLogin records a successful login timestamp.
func (s *AdminUserStore) TouchLogin(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("touch admin user login: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *AdminUserStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE admin_users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *AdminUserStore) EnableTOTP(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE admin_users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
func (s *AdminUserStore) ResetTOTP(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE admin_users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// Delete removes an admin user by ID.
func (s *AdminUserStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete admin user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *AdminUserStore) CheckPassword(user *models.AdminUser, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
