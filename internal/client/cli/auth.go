package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

// getSimpleText and getPassword point to the interactive input helpers and
// can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// credentials resolves the email from --email or a prompt, then reads the
// password. The caller wipes the password.
func (a *App) credentials(name string, args []string) (string, []byte, error) {
	fs := newFlagSet(name)
	email := fs.String("email", "", "account email")
	if err := parse(fs, args, 0); err != nil {
		return "", nil, err
	}

	if *email == "" {
		var err error
		if *email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return "", nil, err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return *email, password, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	email, password, err := a.credentials("register", args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Register(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (%s)\n", u.Email, u.ID)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, password, err := a.credentials("login", args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("logout"), args, 0); err != nil {
		return err
	}
	if _, err := a.token(ctx); err != nil {
		return err
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) me(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("me"), args, 0); err != nil {
		return err
	}
	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	u, err := a.client.Me(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\t%s\n", u.ID, u.Email)
	return nil
}
