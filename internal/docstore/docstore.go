// Package docstore defines the backend-neutral document store the vault
// writes to. Paths use slash-separated segments, alternating collection and
// document id, e.g. "users/u1/passwords/p1".
//
// Backends classify failures with the sentinels in internal/common: an
// access-control rejection wraps common.ErrPermissionDenied, a missing
// document wraps common.ErrNotFound. Callers match with errors.Is.
package docstore

import (
	"context"
	"strings"
)

// Document is one stored document: the backend-assigned id plus its fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the per-identity namespaced document surface. All operations are
// synchronous from the caller's point of view and are never retried here.
type Store interface {
	// Set creates or replaces the document at path.
	Set(ctx context.Context, path string, fields map[string]any) error

	// Add stores fields as a new document in the collection and returns the
	// backend-assigned id.
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// GetAll enumerates every document in the collection, in the order the
	// backend returns them.
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// Delete removes the document at path. Deleting a missing document
	// returns an error wrapping common.ErrNotFound where the backend can
	// detect it.
	Delete(ctx context.Context, path string) error

	Close() error
}

// SplitPath separates a document path into its collection and document id.
// "users/u1/passwords/p1" → ("users/u1/passwords", "p1").
func SplitPath(path string) (collection, id string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
