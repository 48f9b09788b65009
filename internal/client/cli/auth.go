package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/session"
	"github.com/biwott-v/campus-connect-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the new account's profile and creates it. A freshly
// registered account is signed in immediately.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.sess.Register(ctx, api.Profile{
		Email:    email,
		Username: username,
		FullName: fullName,
		Password: string(password),
	})
	return err
}

// Login prompts for credentials and authenticates. When the backend is
// unreachable and degraded mode is enabled, the session manager reports the
// degraded outcome through its OnChange observer.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.sess.Login(ctx, email, string(password))
	return err
}

// Logout discards the persisted credential and returns to anonymous.
func (a *App) Logout(ctx context.Context) error {
	a.staged = nil
	return a.sess.Logout(ctx)
}

// Whoami prints the current identity.
func (a *App) Whoami(ctx context.Context) error {
	user := a.sess.Current()
	if user == nil {
		printlnFn("Not logged in")
		return nil
	}
	status := ""
	if a.sess.Status() == session.StatusDegraded {
		status = " [degraded]"
	}
	printlnFn(fmt.Sprintf("%s <%s> id=%d%s", user.Username, user.Email, user.ID, status))
	return nil
}
