// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cluster builds and reads content clusters: one pillar post plus
// the supporting posts attached under it.
package cluster

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pillarpress/internal/apperr"
	"pillarpress/internal/models"
	"pillarpress/internal/store"
)

type Service struct {
	db    *sql.DB
	posts *store.PostStore
}

func NewService(db *sql.DB, posts *store.PostStore) *Service {
	return &Service{db: db, posts: posts}
}

// Input describes a cluster to create in one shot. The pillar flag on the
// pillar input is implied; supporting inputs must not name a pillar of
// their own.
type Input struct {
	Pillar          store.PostInput
	SupportingPosts []store.PostInput
}

// Create inserts the pillar and every supporting post in a single
// transaction. Nothing persists if any piece fails; the error carries the
// transaction tag and wraps the underlying cause.
func (s *Service) Create(in Input) (*models.Cluster, error) {
	for i, sp := range in.SupportingPosts {
		if sp.PillarPostID != nil {
			verr := &apperr.ValidationError{}
			verr.Add(fmt.Sprintf("supporting post %d must not name its own pillar", i+1))
			return nil, verr
		}
	}
	in.Pillar.IsPillar = true

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &apperr.TransactionError{Op: "create cluster", Cause: err}
	}
	defer tx.Rollback()

	pillar, err := s.posts.CreateTx(tx, in.Pillar)
	if err != nil {
		return nil, &apperr.TransactionError{Op: "create cluster: pillar", Cause: err}
	}

	for i, sp := range in.SupportingPosts {
		sp.PillarPostID = &pillar.ID
		if _, err := s.posts.CreateTx(tx, sp); err != nil {
			return nil, &apperr.TransactionError{
				Op:    fmt.Sprintf("create cluster: supporting post %d", i+1),
				Cause: err,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, &apperr.TransactionError{Op: "create cluster: commit", Cause: err}
	}

	slog.Info("content cluster created",
		"pillar", pillar.ID,
		"slug", pillar.Slug,
		"supporting", len(in.SupportingPosts))

	return s.Get(pillar.ID)
}

// AddSupporting creates a new post already attached under the pillar.
func (s *Service) AddSupporting(pillarID uuid.UUID, in store.PostInput) (*models.Post, error) {
	in.PillarPostID = &pillarID
	return s.posts.Create(in)
}

// Attach links an existing post under the pillar.
func (s *Service) Attach(pillarID, supportingID uuid.UUID) error {
	return s.posts.Link(pillarID, supportingID)
}

// Get returns the pillar's full detail plus every supporting post,
// regardless of status. A post that anchors no relationships and does not
// carry the pillar flag is not a cluster.
func (s *Service) Get(pillarID uuid.UUID) (*models.Cluster, error) {
	detail, err := s.posts.DetailByID(pillarID)
	if err != nil {
		return nil, err
	}

	supporting, err := s.posts.SupportingPosts(pillarID)
	if err != nil {
		return nil, fmt.Errorf("get cluster: %w", err)
	}
	if len(supporting) == 0 && !detail.IsPillar {
		return nil, apperr.NotFound("cluster", pillarID.String())
	}

	return &models.Cluster{
		Pillar:          *detail,
		SupportingPosts: supporting,
	}, nil
}

// GetPublished returns the cluster as readers see it: the pillar must be
// published, and only published supporting posts are included. Anything
// else reports NotFound, so drafts and posts awaiting approval stay
// invisible to public callers.
func (s *Service) GetPublished(pillarID uuid.UUID) (*models.Cluster, error) {
	detail, err := s.posts.DetailByID(pillarID)
	if err != nil {
		return nil, err
	}
	if detail.Status != models.PostStatusPublished {
		return nil, apperr.NotFound("cluster", pillarID.String())
	}

	supporting, err := s.posts.PublishedSupportingPosts(pillarID)
	if err != nil {
		return nil, fmt.Errorf("get cluster: %w", err)
	}
	if len(supporting) == 0 && !detail.IsPillar {
		return nil, apperr.NotFound("cluster", pillarID.String())
	}

	return &models.Cluster{
		Pillar:          *detail,
		SupportingPosts: supporting,
	}, nil
}

// List returns every cluster anchored by a published pillar. Supporting
// posts are filtered to published for reader-facing output.
func (s *Service) List() ([]models.Cluster, error) {
	pillars, err := s.posts.PillarPosts()
	if err != nil {
		return nil, err
	}

	clusters := make([]models.Cluster, 0, len(pillars))
	for _, p := range pillars {
		c, err := s.GetPublished(p.ID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		clusters = append(clusters, *c)
	}
	return clusters, nil
}
