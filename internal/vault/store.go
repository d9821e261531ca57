package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/docstore"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

type state int

const (
	stateUninitialized state = iota
	stateReady
)

// Store is the authoritative client-side interface to one identity's
// credential collection. One Store per authenticated identity; the cache is
// the source of truth for reads once initialized, the remote store for
// writes. A Store is not safe for concurrent use: callers await each
// operation before issuing the next.
type Store struct {
	uid   string
	docs  docstore.Store
	log   logging.Logger
	state state
	cache []Record

	// test seams
	now        func() time.Time
	newProbeID func() string
}

// NewStore builds a credential store scoped to the given identity. An empty
// uid is a constructor-time precondition violation: it would address an
// undefined namespace.
func NewStore(uid string, docs docstore.Store, log logging.Logger) (*Store, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: empty user id", common.ErrNotInitialized)
	}
	return &Store{
		uid:        uid,
		docs:       docs,
		log:        log,
		now:        time.Now,
		newProbeID: uuid.NewString,
	}, nil
}

// UID returns the owning identity's identifier.
func (s *Store) UID() string { return s.uid }

func (s *Store) passwordsPath() string {
	return "users/" + s.uid + "/passwords"
}

// CheckPermissions proves write and delete access by writing a disposable
// marker document to the identity's meta sub-namespace and deleting it.
// It never touches the cache. An access-denial from the backend surfaces as
// common.ErrPermissionDenied; anything else as common.ErrStoreUnavailable.
func (s *Store) CheckPermissions(ctx context.Context) error {
	path := fmt.Sprintf("users/%s/meta/permcheck-%s", s.uid, s.newProbeID())
	marker := map[string]any{
		"probe": true,
		"at":    s.now().UTC().Format(time.RFC3339),
	}

	if err := s.docs.Set(ctx, path, marker); err != nil {
		return remoteErr("permission probe write", err)
	}
	if err := s.docs.Delete(ctx, path); err != nil {
		return remoteErr("permission probe delete", err)
	}
	s.log.Debug(ctx, "permission probe ok", "uid", s.uid)
	return nil
}

// Init transitions the store to ready: permission probe, then a full load of
// the identity's credential collection, in the order the backend returns it.
// Idempotent: a ready store returns immediately. On any failure the store
// stays uninitialized and the cache is untouched; the cache is assigned only
// after the full enumeration succeeds.
func (s *Store) Init(ctx context.Context) error {
	if s.state == stateReady {
		return nil
	}

	if err := s.CheckPermissions(ctx); err != nil {
		return err
	}

	docs, err := s.docs.GetAll(ctx, s.passwordsPath())
	if err != nil {
		return remoteErr("loading passwords", err)
	}

	records := make([]Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, recordFromDoc(d))
	}

	s.cache = records
	s.state = stateReady
	s.log.Info(ctx, "credential store ready", "uid", s.uid, "records", len(records))
	return nil
}

// AddPassword persists a new record remotely and appends it to the cache only
// after the remote write succeeds, so the cache never holds a record the
// remote store rejected. No uniqueness check is performed here: duplicates
// are permitted by direct add, deliberately asymmetric with Import.
func (s *Store) AddPassword(ctx context.Context, website, username, password string) (Record, error) {
	if err := s.requireReady(); err != nil {
		return Record{}, err
	}

	r := Record{
		Website:   website,
		Username:  username,
		Password:  password,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	id, err := s.docs.Add(ctx, s.passwordsPath(), recordFields(r))
	if err != nil {
		return Record{}, remoteErr("adding password", err)
	}
	r.ID = id

	s.cache = append(s.cache, r)
	return r, nil
}

// GetPasswords returns a snapshot of the cache, lazily initializing the
// store first when needed.
func (s *Store) GetPasswords(ctx context.Context) ([]Record, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	out := make([]Record, len(s.cache))
	copy(out, s.cache)
	return out, nil
}

// DeletePassword deletes the remote document first and removes the matching
// cached record only on success. A backend not-found outcome is tolerated:
// deleting an already-absent record reports success with the cache unchanged.
func (s *Store) DeletePassword(ctx context.Context, recordID string) (bool, error) {
	if err := s.requireReady(); err != nil {
		return false, err
	}

	err := s.docs.Delete(ctx, s.passwordsPath()+"/"+recordID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return false, remoteErr("deleting password", err)
	}

	for i := range s.cache {
		if s.cache[i].ID == recordID {
			s.cache = append(s.cache[:i], s.cache[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *Store) requireReady() error {
	if s.state != stateReady {
		return fmt.Errorf("%w: store is not ready, call Init first", common.ErrNotInitialized)
	}
	return nil
}

// remoteErr keeps an access-denial classification intact and folds every
// other backend failure into the StoreUnavailable bucket, with context.
func remoteErr(op string, err error) error {
	if errors.Is(err, common.ErrPermissionDenied) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, common.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
}
