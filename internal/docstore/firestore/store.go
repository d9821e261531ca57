// Package firestore adapts Cloud Firestore to docstore.Store. This is the
// production backend; the per-user namespace maps directly onto Firestore
// collection paths.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/docstore"
)

type Store struct {
	client *firestore.Client
}

func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Set(ctx context.Context, path string, fields map[string]any) error {
	if _, err := s.client.Doc(path).Set(ctx, fields); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", classify(err)
	}
	return ref.ID, nil
}

// GetAll enumerates the collection in the backend's natural document order;
// no sort is imposed.
func (s *Store) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var result []docstore.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		result = append(result, docstore.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return result, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	// Firestore deletes are not-found tolerant, matching the store contract
	if _, err := s.client.Doc(path).Delete(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// classify maps a backend error onto the common taxonomy so callers can
// distinguish an access-control rejection from a transient failure.
func classify(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	switch st.Code() {
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %s", common.ErrPermissionDenied, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, st.Message())
	default:
		return fmt.Errorf("%w: %s", common.ErrStoreUnavailable, st.Message())
	}
}
