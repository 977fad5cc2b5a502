// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Relationship is a directed edge from a pillar post to one of its
// supporting posts. A supporting post references at most one pillar, and a
// post never references itself; both rules are backed by constraints on the
// content_relationships table.
type Relationship struct {
	ID               uuid.UUID `json:"id"`
	PillarPostID     uuid.UUID `json:"pillar_post_id"`
	SupportingPostID uuid.UUID `json:"supporting_post_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// Cluster is one pillar post plus its full set of supporting posts, treated
// as an atomic unit at creation time.
type Cluster struct {
	Pillar          PostDetail `json:"pillar"`
	SupportingPosts []Post     `json:"supporting_posts"`
}
