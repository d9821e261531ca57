package cli

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) Add(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	website, err := GetSimpleText(a.reader, "Enter website", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	record, err := a.store.AddPassword(ctx, website, username, string(password))
	if err != nil {
		printlnFn("Cannot add password:", err.Error())
		return err
	}

	printlnFn("Added", record.Website, "/", record.Username, "(id:", record.ID+")")
	return nil
}
