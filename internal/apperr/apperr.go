// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the store and service
// layers. Callers branch on error kind with errors.Is rather than parsing
// message strings.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that a referenced post, category, tag, or pillar
	// does not exist. Reads surface it as an absent result; writes that
	// require an existing parent surface it as a hard failure.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation (slug collision, duplicate
	// relationship, concurrent tag creation).
	ErrConflict = errors.New("conflict")

	// ErrValidation signals missing or malformed input fields.
	ErrValidation = errors.New("validation failed")
)

// NotFound wraps ErrNotFound with the entity kind and identifier so the
// failure can be logged meaningfully.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// ValidationError carries the individual field problems found while checking
// an input. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add appends an issue to the error.
func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

// HasAny reports whether any issue was recorded.
func (e *ValidationError) HasAny() bool {
	return len(e.Issues) > 0
}

// TransactionError wraps a failure that aborted a multi-step write. The
// whole unit of work was rolled back; Cause is the underlying error.
type TransactionError struct {
	Op    string
	Cause error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction rolled back: %v", e.Op, e.Cause)
}

func (e *TransactionError) Unwrap() error {
	return e.Cause
}
