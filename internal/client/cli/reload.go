package cli

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// Reload discards the current store and loads a fresh one for the same
// identity. A full reload is the only way to observe records written by
// other sessions.
func (a *App) Reload(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	id := a.session.CurrentIdentity()
	if id == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	store, err := a.newStore(id.UID)
	if err != nil {
		printlnFn("Cannot open vault:", err.Error())
		return err
	}
	if err := store.Init(ctx); err != nil {
		printlnFn("Reload failed:", err.Error())
		return err
	}

	a.store = store
	records, err := store.GetPasswords(ctx)
	if err != nil {
		return err
	}
	printlnFn("Reloaded,", len(records), "passwords")
	return nil
}
