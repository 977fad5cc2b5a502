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
)

// Relationship-graph queries. The content_relationships table is the source
// of truth for what counts as a pillar on the read side; the is_pillar flag
// only gates writes.

// anchorsRelationships reports whether the post is the pillar side of at
// least one relationship row.
func (s *PostStore) anchorsRelationships(postID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM content_relationships WHERE pillar_post_id = $1)
	`, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pillar relationships: %w", err)
	}
	return exists, nil
}

// supportingPosts returns the posts linked under the given pillar, newest
// first. publishedOnly restricts to published posts (public reads).
func (s *PostStore) supportingPosts(pillarID uuid.UUID, publishedOnly bool) ([]models.Post, error) {
	query := `
		SELECT ` + prefixedPostColumns("p") + `
		FROM posts p
		JOIN content_relationships r ON p.id = r.supporting_post_id
		WHERE r.pillar_post_id = $1`
	if publishedOnly {
		query += ` AND p.status = 'Published'`
	}
	query += ` ORDER BY p.publish_date DESC`

	rows, err := s.db.Query(query, pillarID)
	if err != nil {
		return nil, fmt.Errorf("supporting posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// SupportingPosts returns every post linked under the pillar regardless of
// status. Used by the cluster service, whose callers are authoring tools.
func (s *PostStore) SupportingPosts(pillarID uuid.UUID) ([]models.Post, error) {
	return s.supportingPosts(pillarID, false)
}

// PublishedSupportingPosts returns only the published posts linked under the
// pillar. Reader-facing cluster reads go through this.
func (s *PostStore) PublishedSupportingPosts(pillarID uuid.UUID) ([]models.Post, error) {
	return s.supportingPosts(pillarID, true)
}

// parentPillar resolves the published pillar a supporting post belongs to,
// or nil when the post is unattached.
func (s *PostStore) parentPillar(supportingID uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+prefixedPostColumns("p")+`
		FROM posts p
		JOIN content_relationships r ON p.id = r.pillar_post_id
		WHERE r.supporting_post_id = $1 AND p.status = 'Published'
	`, supportingID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parent pillar: %w", err)
	}
	return p, nil
}

// siblingPosts returns up to limit published posts sharing the same pillar,
// excluding the post itself.
func (s *PostStore) siblingPosts(pillarID, excludeID uuid.UUID, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+prefixedPostColumns("p")+`
		FROM posts p
		JOIN content_relationships r ON p.id = r.supporting_post_id
		WHERE r.pillar_post_id = $1
		  AND p.id != $2
		  AND p.status = 'Published'
		ORDER BY p.publish_date DESC
		LIMIT $3
	`, pillarID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("sibling posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// linkTx inserts a relationship row within the caller's transaction. The
// pillar must exist and carry the is_pillar flag. Constraint violations map
// onto the application taxonomy: a supporting post already attached to a
// pillar is a conflict, as is a self-link (rejected by the table CHECK).
func (s *PostStore) linkTx(tx *sql.Tx, pillarID, supportingID uuid.UUID) error {
	if pillarID == supportingID {
		return fmt.Errorf("post %s cannot support itself: %w", pillarID, apperr.ErrValidation)
	}

	var isPillar bool
	err := tx.QueryRow(`SELECT is_pillar FROM posts WHERE id = $1`, pillarID).Scan(&isPillar)
	if err == sql.ErrNoRows {
		return apperr.NotFound("pillar post", pillarID.String())
	}
	if err != nil {
		return fmt.Errorf("check pillar: %w", err)
	}
	if !isPillar {
		return apperr.NotFound("pillar post", pillarID.String())
	}

	_, err = tx.Exec(`
		INSERT INTO content_relationships (pillar_post_id, supporting_post_id)
		VALUES ($1, $2)
	`, pillarID, supportingID)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return fmt.Errorf("post %s already supports a pillar: %w", supportingID, apperr.ErrConflict)
		}
		if pgErrCode(err) == pgForeignKeyViolation {
			return apperr.NotFound("post", supportingID.String())
		}
		return fmt.Errorf("link supporting post: %w", err)
	}
	return nil
}

// Link attaches an existing post under a pillar in its own transaction.
func (s *PostStore) Link(pillarID, supportingID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("link: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.linkTx(tx, pillarID, supportingID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("link: commit: %w", err)
	}
	return nil
}
