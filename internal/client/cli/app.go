package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/passvault/internal/auth"
	"github.com/dmitrijs2005/passvault/internal/auth/firebase"
	"github.com/dmitrijs2005/passvault/internal/backup"
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/docstore"
	fsstore "github.com/dmitrijs2005/passvault/internal/docstore/firestore"
	"github.com/dmitrijs2005/passvault/internal/docstore/memory"
	pgstore "github.com/dmitrijs2005/passvault/internal/docstore/postgres"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault"
)

// credentialStore is the store surface the CLI drives. *vault.Store
// satisfies it; tests provide a fake.
type credentialStore interface {
	Init(ctx context.Context) error
	AddPassword(ctx context.Context, website, username, password string) (vault.Record, error)
	GetPasswords(ctx context.Context) ([]vault.Record, error)
	DeletePassword(ctx context.Context, recordID string) (bool, error)
	Export() (vault.Snapshot, error)
	Import(ctx context.Context, data []byte) (vault.ImportResult, error)
}

// snapshotUploader is the backup surface. *backup.Uploader satisfies it.
type snapshotUploader interface {
	Upload(ctx context.Context, snap vault.Snapshot) (string, error)
}

// App wires the session manager, the credential store and the REPL together.
// The store exists only while a session is authenticated: it is constructed
// on the authenticated event and discarded on sign-out.
type App struct {
	config   *config.Config
	provider auth.Provider
	session  *auth.SessionManager
	log      logging.Logger

	docs     docstore.Store
	store    credentialStore
	uploader snapshotUploader

	reader *bufio.Reader
	out    io.Writer

	// newStore is a seam so tests can substitute a fake store.
	newStore func(uid string) (credentialStore, error)
}

// NewProvider builds the identity provider described by the config.
func NewProvider(cfg *config.Config, log logging.Logger) (auth.Provider, error) {
	return firebase.New(firebase.Config{
		APIKey:     cfg.FirebaseAPIKey,
		Endpoint:   cfg.AuthEndpoint,
		HTTPClient: &http.Client{Timeout: cfg.AuthTimeout},
		Logger:     log,
	})
}

func NewApp(ctx context.Context, cfg *config.Config, provider auth.Provider, session *auth.SessionManager, log logging.Logger) (*App, error) {
	docs, err := newDocStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}

	a := &App{
		config:   cfg,
		provider: provider,
		session:  session,
		log:      log,
		docs:     docs,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	a.newStore = func(uid string) (credentialStore, error) {
		return vault.NewStore(uid, a.docs, a.log)
	}

	if cfg.BackupBucket != "" {
		uploader, err := backup.NewUploader(backup.Config{
			Region:    cfg.BackupRegion,
			Endpoint:  cfg.BackupEndpoint,
			Bucket:    cfg.BackupBucket,
			AccessKey: cfg.BackupAccessKey,
			SecretKey: cfg.BackupSecretKey,
		}, log)
		if err != nil {
			return nil, err
		}
		a.uploader = uploader
	}

	return a, nil
}

func newDocStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		return fsstore.New(ctx, cfg.FirestoreProject)
	case config.BackendPostgres:
		return pgstore.Open(ctx, cfg.PostgresDSN)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.docs.Close() }()

	a.syncSession(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.store != nil
}

func (a *App) status() string {
	if id := a.session.CurrentIdentity(); id != nil {
		return id.DisplayLabel
	}
	return "signed out"
}

// syncSession drains pending session events and reacts: an authenticated
// event constructs and initializes a store for the new identity, a sign-out
// discards it. Sign-in and sign-out happen only inside REPL commands, so
// draining after each transition keeps the store in step with the session.
func (a *App) syncSession(ctx context.Context) {
	for {
		select {
		case ev := <-a.session.Events():
			switch ev.Kind {
			case auth.EventAuthenticated:
				a.attachStore(ctx, ev.Identity)
			case auth.EventSignedOut:
				a.store = nil
			}
		default:
			return
		}
	}
}

func (a *App) attachStore(ctx context.Context, id *auth.Identity) {
	store, err := a.newStore(id.UID)
	if err != nil {
		printlnFn("Cannot open vault:", err.Error())
		return
	}

	if err := store.Init(ctx); err != nil {
		if errors.Is(err, common.ErrPermissionDenied) {
			printlnFn("The storage backend denied access to your vault.")
			printlnFn("Check the security rules / grants for user", id.UID)
		} else {
			printlnFn("Vault is unavailable:", err.Error())
			printlnFn("It will be retried on the next command.")
		}
	}
	// keep the store even when Init failed: reads trigger a lazy retry
	a.store = store
}
