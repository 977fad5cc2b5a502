// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pillarpress/internal/storage"
)

const (
	// maxUploadSize is the maximum allowed hero image size (10 MB).
	maxUploadSize = 10 << 20
)

// allowedImageTypes defines MIME types accepted for hero images.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Media handles hero image uploads to object storage.
type Media struct {
	storage *storage.Client
}

// NewMedia creates a Media handler group. storage may be nil when S3 is
// not configured; uploads then return 503.
func NewMedia(s *storage.Client) *Media {
	return &Media{storage: s}
}

// Upload stores a hero image in the public bucket and returns its URL.
// The object key is date-prefixed and randomized so uploads never collide.
func (m *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respondError(w, http.StatusUnsupportedMediaType, "unsupported image type, use JPEG, PNG, or WebP")
		return
	}

	// Prefer the original extension when it matches the declared type.
	if orig := strings.ToLower(filepath.Ext(header.Filename)); orig == ext || (orig == ".jpeg" && ext == ".jpg") {
		ext = orig
	}

	key := fmt.Sprintf("heroes/%s/%s%s",
		time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)

	if err := m.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": m.storage.FileURL(key),
	})
}
