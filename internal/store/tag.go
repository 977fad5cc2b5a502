// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"pillarpress/internal/apperr"
	"pillarpress/internal/models"
	"pillarpress/internal/slug"
)

// TagStore manages tags in the database. Tags use get-or-create semantics
// keyed on the exact (case-sensitive) name.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT id, name, slug, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// GetOrCreate resolves a tag by name, creating it when missing. Safe under
// concurrent creation of the same name.
func (s *TagStore) GetOrCreate(name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &apperr.ValidationError{Issues: []string{"tag name is required"}}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("get or create tag: begin tx: %w", err)
	}
	defer tx.Rollback()

	t, err := getOrCreateTagTx(tx, name)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("get or create tag: commit: %w", err)
	}
	return t, nil
}

// getOrCreateTagTx is the conflict-tolerant insert behind tag resolution.
// ON CONFLICT (name) DO UPDATE turns the insert into a fetch when another
// request created the same tag name first, so the common race never aborts
// the enclosing transaction. Slug candidates are probed before inserting
// because a failed statement would poison the caller's transaction; the
// remaining window (two new names racing to the same derived slug) surfaces
// as a conflict the caller can retry.
func getOrCreateTagTx(q querier, name string) (*models.Tag, error) {
	var t models.Tag
	err := q.QueryRow(`SELECT id, name, slug, created_at FROM tags WHERE name = $1`, name).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == nil {
		return &t, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get or create tag %q: %w", name, err)
	}

	base := slug.Generate(name)
	if base == "" {
		base = "tag"
	}
	candidate := base
	for attempt := 2; ; attempt++ {
		var taken bool
		err := q.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM tags WHERE slug = $1 AND name != $2)
		`, candidate, name).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("check tag slug: %w", err)
		}
		if !taken {
			break
		}
		if attempt > 5 {
			return nil, fmt.Errorf("get or create tag %q: could not derive unique slug", name)
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	err = q.QueryRow(`
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, created_at
	`, name, candidate).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("tag slug %q: %w", candidate, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("get or create tag %q: %w", name, err)
	}
	return &t, nil
}

// FindBySlug retrieves a tag by its slug. Returns nil when missing.
func (s *TagStore) FindBySlug(tagSlug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`SELECT id, name, slug, created_at FROM tags WHERE slug = $1`, tagSlug).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}
