package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/client/syncer"
)

// Login prompts for email and password and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.svc.Login(ctx, email, string(password)); err != nil {
		return a.report(err)
	}
	if u := a.svc.Session().Identity; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	}
	return nil
}

// Signup prompts for the registration fields and signs in as the new user.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	skills, err := getSimpleText(a.reader, "Enter your skills (comma separated)", a.out)
	if err != nil {
		return err
	}
	bio, err := getSimpleText(a.reader, "Enter a short bio", a.out)
	if err != nil {
		return err
	}

	r := models.Registration{Name: name, Email: email, Password: string(password), Skills: SplitList(skills), Bio: bio}
	if err := a.svc.Signup(ctx, r); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Logout(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	sess := a.svc.Session()
	switch sess.State() {
	case models.SignedOut:
		fmt.Fprintln(a.out, "Not logged in")
	case models.TokenOnly:
		fmt.Fprintln(a.out, "Logged in, identity not confirmed yet (try 'refresh')")
	default:
		u := sess.Identity
		fmt.Fprintf(a.out, "%s <%s> #%d, available: %t\n", u.Name, u.Email, u.ID, u.Available)
	}
	return nil
}

// report prints err in a form suited to its kind and returns it.
func (a *App) report(err error) error {
	var (
		authErr    *client.AuthError
		capErr     *client.CapabilityError
		refreshErr *syncer.RefreshError
		netErr     *client.NetworkError
	)
	switch {
	case errors.As(err, &capErr):
		if errors.Is(err, client.ErrIdentityUnknown) {
			fmt.Fprintf(a.out, "Cannot %s yet: your identity is still loading (try 'refresh')\n", capErr.Action)
		} else {
			fmt.Fprintf(a.out, "Please log in to %s\n", capErr.Action)
		}
	case errors.As(err, &authErr):
		fmt.Fprintf(a.out, "Please log in again: %v\n", authErr.Err)
	case errors.As(err, &refreshErr):
		fmt.Fprintf(a.out, "Done, but the list could not be updated: %v\n", err)
	case errors.As(err, &netErr):
		fmt.Fprintf(a.out, "Server unreachable: %v\n", netErr.Err)
	default:
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
	return err
}
