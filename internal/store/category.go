// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pillarpress/internal/apperr"
	"pillarpress/internal/models"
	"pillarpress/internal/slug"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, each with its count of
// published posts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN post_categories pc ON c.id = pc.category_id
		LEFT JOIN posts p ON pc.post_id = p.id AND p.status = 'Published'
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by its slug.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category", categorySlug)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by ID.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category. The slug is derived from the name when not
// supplied. Duplicate slugs are a conflict.
func (s *CategoryStore) Create(name, categorySlug, description string) (*models.Category, error) {
	if name == "" {
		return nil, &apperr.ValidationError{Issues: []string{"name is required"}}
	}
	if categorySlug == "" {
		categorySlug = slug.Generate(name)
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		name, categorySlug, nullable(description),
	)
	c, err := scanCategory(row)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("category slug %q: %w", categorySlug, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Delete removes a category. Join rows cascade.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("category", id.String())
	}
	return nil
}
