package cli

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) Backup(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}
	if a.uploader == nil {
		printlnFn("Backup is not configured (set backup_bucket in the config file)")
		return nil
	}

	snap, err := a.store.Export()
	if err != nil {
		printlnFn("Cannot export:", err.Error())
		return err
	}

	key, err := a.uploader.Upload(ctx, snap)
	if err != nil {
		printlnFn("Backup failed:", err.Error())
		return err
	}

	printlnFn("Snapshot uploaded as", key)
	return nil
}
