package cli

import (
	"context"
	"errors"
	"fmt"

	"mpcconsole/internal/client/guard"
	"mpcconsole/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// cmdLogin prompts for credentials and opens a session. On success the user
// is told their landing route.
func (a *App) cmdLogin(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.creds.Login(ctx, username, string(password))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			fmt.Fprintln(a.out, "Invalid username or password")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s -> %s\n", session.User.Username, guard.HomeFor(session.User.Role))
	return nil
}

func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	if err := a.creds.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged out -> %s\n", guard.PathLogin)
	return nil
}

func (a *App) cmdWhoami(_ context.Context, _ []string) error {
	s := a.creds.Session()
	if s == nil {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s), session expires %s\n",
		s.User.Username, s.User.Role, s.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}
