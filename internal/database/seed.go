package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: one verified
// admin and one verified registered user. No-op when users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	seedUsers := []struct {
		firstName, lastName, email, password, profileType string
	}{
		{"Admin", "User", "admin@pagesmith.local", "admin", "Admin"},
		{"Demo", "User", "demo@pagesmith.local", "demo", "Registered"},
	}

	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}

		_, err = db.Exec(`
			INSERT INTO users (first_name, last_name, email, profile_type, password_hash, is_verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, u.firstName, u.lastName, u.email, u.profileType, string(hash))
		if err != nil {
			return fmt.Errorf("seed insert user: %w", err)
		}

		slog.Info("database seeded with user", "email", u.email, "profile_type", u.profileType)
	}

	return nil
}
