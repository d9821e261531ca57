package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) List(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	records, err := a.store.GetPasswords(ctx)
	if err != nil {
		printlnFn("Cannot list passwords:", err.Error())
		return err
	}

	if len(records) == 0 {
		printlnFn("No passwords stored yet")
		return nil
	}

	for _, r := range records {
		flag := ""
		if r.Imported {
			flag = " [imported]"
		}
		printlnFn(fmt.Sprintf("%s  %s / %s  (created %s)%s", r.ID, r.Website, r.Username, r.CreatedAt, flag))
	}
	return nil
}
