package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
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

	if err := a.provider.SignInWithPassword(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			printlnFn("Invalid email or password")
		} else {
			printlnFn("Sign-in failed:", err.Error())
		}
		return err
	}

	a.syncSession(ctx)
	printlnFn("Signed in as", a.status())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.provider.SignOut(ctx); err != nil {
		printlnFn("Sign-out failed:", err.Error())
		return err
	}
	a.syncSession(ctx)
	printlnFn("Signed out")
	return nil
}
