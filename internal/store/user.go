// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all PageSmith entities.
// Each store struct wraps a *sql.DB and exposes typed query methods. Accounts
// live in a plain relational table; templates, pages and actions are document
// aggregates persisted as JSONB-backed rows.
package store

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pagesmith/internal/models"
)

// UserStore handles all account-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, first_name, last_name, email, profile_type, password_hash, password_salt, is_verified, last_template_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var lastTemplateID sql.NullString
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.ProfileType,
		&u.PasswordHash, &u.PasswordSalt, &u.IsVerified, &lastTemplateID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastTemplateID.Valid {
		id := models.DocID(lastTemplateID.String)
		u.LastTemplateID = &id
	}
	return u, nil
}

// FindByEmail retrieves a user by email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by numeric id. Returns nil if not found.
func (s *UserStore) FindByID(id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date.
func (s *UserStore) List() ([]models.User, error) {
	return s.queryUsers(`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
}

// ListByProfileType returns users with the given profile type, ordered by
// creation date. Used by the moderation queue's banned_users facet.
func (s *UserStore) ListByProfileType(pt models.ProfileType) ([]models.User, error) {
	return s.queryUsers(`SELECT `+userColumns+` FROM users WHERE profile_type = $1 ORDER BY created_at ASC`, pt)
}

// FindByIDs resolves a batch of accounts in one query, keyed by id. IDs with
// no matching row are simply absent from the map.
func (s *UserStore) FindByIDs(ids []int64) (map[int64]models.User, error) {
	out := make(map[int64]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.queryUsers(`SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *UserStore) queryUsers(query string, args ...any) ([]models.User, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new user with a bcrypt-hashed password. New accounts start
// as unverified Guests unless another profile type is passed.
func (s *UserStore) Create(firstName, lastName, email, password string, pt models.ProfileType) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if pt == "" {
		pt = models.ProfileGuest
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, profile_type, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, firstName, lastName, email, pt, string(hash)))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update writes the mutable profile fields of a user.
func (s *UserStore) Update(u *models.User) error {
	_, err := s.db.Exec(`
		UPDATE users SET
			first_name = $1, last_name = $2, email = $3, profile_type = $4,
			is_verified = $5, updated_at = NOW()
		WHERE id = $6
	`, u.FirstName, u.LastName, u.Email, u.ProfileType, u.IsVerified, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetVerified marks an account's email as verified and promotes Guests to
// Registered. Admin and Banned accounts keep their profile type.
func (s *UserStore) SetVerified(userID int64) error {
	_, err := s.db.Exec(`
		UPDATE users SET
			is_verified = TRUE,
			profile_type = CASE WHEN profile_type = 'Guest' THEN 'Registered' ELSE profile_type END,
			updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	return nil
}

// SetLastTemplateID records the id of the template a user saved most
// recently. This is a denormalized convenience field, updated best-effort
// after template creation.
func (s *UserStore) SetLastTemplateID(userID int64, templateID models.DocID) error {
	_, err := s.db.Exec(`
		UPDATE users SET last_template_id = $1, updated_at = NOW() WHERE id = $2
	`, string(templateID), userID)
	if err != nil {
		return fmt.Errorf("set last template id: %w", err)
	}
	return nil
}

// Delete removes a user by id. Returns false when no row was deleted.
// Templates owned by the user are NOT cascaded; they remain in the document
// store and surface as "Unknown user" in the moderation queue.
func (s *UserStore) Delete(userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
