// Package memory provides an in-process docstore.Store used by tests and by
// the demo backend mode. It mirrors the permission and not-found semantics of
// the real backends and supports fault injection per operation.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/docstore"
)

// Store keeps documents grouped by collection, preserving insertion order.
//
// The Err* fields inject failures: when set, the corresponding operation
// fails with that error before touching any state. FailAddAfter limits the
// number of successful Adds; once the count is reached, further Adds fail
// with ErrAdd (or common.ErrStoreUnavailable when ErrAdd is nil).
type Store struct {
	mu          sync.Mutex
	collections map[string][]docstore.Document

	ErrSet       error
	ErrAdd       error
	ErrGetAll    error
	ErrDelete    error
	FailAddAfter int // <0 means unlimited
	addCount     int
}

func New() *Store {
	return &Store{
		collections:  make(map[string][]docstore.Document),
		FailAddAfter: -1,
	}
}

func (s *Store) Set(ctx context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrSet != nil {
		return s.ErrSet
	}

	collection, id := docstore.SplitPath(path)
	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			docs[i].Fields = copyFields(fields)
			return nil
		}
	}
	s.collections[collection] = append(docs, docstore.Document{ID: id, Fields: copyFields(fields)})
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrAdd != nil && s.FailAddAfter < 0 {
		return "", s.ErrAdd
	}
	if s.FailAddAfter >= 0 && s.addCount >= s.FailAddAfter {
		if s.ErrAdd != nil {
			return "", s.ErrAdd
		}
		return "", common.ErrStoreUnavailable
	}

	id := uuid.NewString()
	s.collections[collection] = append(s.collections[collection], docstore.Document{ID: id, Fields: copyFields(fields)})
	s.addCount++
	return id, nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrGetAll != nil {
		return nil, s.ErrGetAll
	}

	docs := s.collections[collection]
	out := make([]docstore.Document, len(docs))
	for i, d := range docs {
		out[i] = docstore.Document{ID: d.ID, Fields: copyFields(d.Fields)}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrDelete != nil {
		return s.ErrDelete
	}

	collection, id := docstore.SplitPath(path)
	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *Store) Close() error { return nil }

// Len reports the number of documents in a collection.
func (s *Store) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
