package cli

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) Delete(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	recordID, err := GetSimpleText(a.reader, "Enter record id", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	ok, err := a.store.DeletePassword(ctx, recordID)
	if err != nil {
		printlnFn("Cannot delete password:", err.Error())
		return err
	}
	if ok {
		printlnFn("Deleted", recordID)
	}
	return nil
}
