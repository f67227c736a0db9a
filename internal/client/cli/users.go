package cli

import (
	"context"
	"errors"
	"fmt"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
)

func (a *App) cmdUsers(_ context.Context, _ []string) error {
	users := a.creds.Users()
	fmt.Fprintf(a.out, "%-38s %-16s %-8s %s\n", "ID", "USERNAME", "ROLE", "CREATED")
	for _, u := range users {
		created := ""
		if u.CreatedAt != nil {
			created = u.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(a.out, "%-38s %-16s %-8s %s\n", u.ID, u.Username, u.Role, created)
	}
	return nil
}

func (a *App) cmdAddUser(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	roleStr, err := getSimpleText(a.reader, "Role (admin|user)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.creds.CreateUser(ctx, username, string(password), models.Role(roleStr))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUsernameTaken):
			fmt.Fprintf(a.out, "username already taken: %s\n", username)
			return nil
		case errors.Is(err, common.ErrValidation):
			fmt.Fprintf(a.out, "rejected: %s\n", err)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "Created %s (%s) id=%s\n", user.Username, user.Role, user.ID)
	return nil
}

func (a *App) cmdDelUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: deluser <id>")
		return nil
	}
	if err := a.creds.DeleteUser(ctx, args[0]); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			fmt.Fprintf(a.out, "no such user: %s\n", args[0])
			return nil
		case errors.Is(err, common.ErrLastAdminProtected):
			fmt.Fprintln(a.out, "refusing to delete the last admin")
			return nil
		}
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
