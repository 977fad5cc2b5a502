package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pillarpress/internal/slug"
)

// defaultCategories are created on first start so authoring can begin
// without manual taxonomy setup.
var defaultCategories = []struct {
	Name        string
	Description string
}{
	{"Business Valuation", "How businesses are valued and what drives the numbers."},
	{"Buying a Business", "Guides for acquirers, from search to completion."},
	{"Selling a Business", "Preparing, marketing, and closing a business sale."},
	{"Market Trends", "Sector analysis and marketplace activity."},
	{"Financing", "Funding routes for acquisitions and growth."},
}

// Seed populates the database with initial development data: a default
// admin user and the default category set. No-op when data already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@pillarpress.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range defaultCategories {
		_, err = db.Exec(`
			INSERT INTO categories (name, slug, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING
		`, c.Name, slug.Generate(c.Name), c.Description)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	slog.Info("database seeded with default admin user and categories",
		"email", "admin@pillarpress.local",
		"password", "admin",
	)

	return nil
}
