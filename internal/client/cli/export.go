package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) Export(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	snap, err := a.store.Export()
	if err != nil {
		printlnFn("Cannot export:", err.Error())
		return err
	}

	path, err := GetSimpleText(a.reader, "Enter file path to write", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		printlnFn("Cannot encode snapshot:", err.Error())
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		printlnFn("Cannot write file:", err.Error())
		return err
	}

	printlnFn("Exported", len(snap.Passwords), "passwords to", path)
	return nil
}

func (a *App) Import(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Please login first")
		return common.ErrNotInitialized
	}

	path, err := GetSimpleText(a.reader, "Enter file path to read", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}

	res, err := a.store.Import(ctx, data)
	if err != nil {
		// a partial import still reports what made it
		printlnFn("Import failed:", err.Error())
		printlnFn(res.Message)
		return err
	}

	printlnFn(res.Message)
	return nil
}
