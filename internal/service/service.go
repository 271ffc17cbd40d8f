// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services take repository INTERFACES, never *sqlite.DB, so tests can swap
// any single store for a fake (see the failing notification store in
// interaction_test.go).
//
// INTERACTION CONSISTENCY RULES:
//   - A primary write (like, comment, message) is committed before its
//     notification is attempted. If the notification insert fails, the
//     primary write stands; the failure is logged and counted.
//   - Self-notification is suppressed at the like and comment call sites.
//     Message notifications are always sent.
//   - Ownership-scoped mutations (delete comment, mark read, delete
//     notification) are silent no-ops for non-owners: they return nil
//     without revealing whether the row exists.
//   - Counts are always recomputed from the table, never cached.
package service

import (
	"strings"
	"unicode/utf8"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/repository"
)

// Validation and pagination limits.
const (
	MaxTitleLength   = 200
	MaxSubjectLength = 200
	MaxCommentLength = 5000
	MaxMessageLength = 10000
	MaxPitchLength   = 50000
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// listOptions clamps caller-supplied pagination to sane bounds.
func listOptions(limit, offset int) repository.ListOptions {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.ListOptions{Limit: limit, Offset: offset}
}

// requireText trims s and rejects it if empty or longer than max runes.
func requireText(field, label, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperror.ValidationFailed(field, label+" is required")
	}
	if utf8.RuneCountInString(s) > max {
		return "", apperror.ValidationFailed(field, label+" is too long")
	}
	return s, nil
}

// optionalText trims s and rejects it only if it is too long.
func optionalText(field, label, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		return "", apperror.ValidationFailed(field, label+" is too long")
	}
	return s, nil
}
