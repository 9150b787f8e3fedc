package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/vpetrenko/realhome/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for a username, email and password and creates an account.
// The password byte slice is wiped before returning.
func (a *App) SignUp(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.SignUp(ctx, userName, email, string(password)); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("User created successfully")
	return nil
}

// SignIn prompts for credentials and authenticates against the server.
// The session cookie is kept in the client's jar for later requests.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.SignIn(ctx, email, string(password))
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.userName = user.Username
	printlnFn(fmt.Sprintf("Signed in as %s", user.Username))
	return nil
}

// GoogleSignIn performs a federated sign-in with profile data supplied by
// the identity provider. The account is created on first use.
func (a *App) GoogleSignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter Google account email", os.Stdout)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	photo, err := getSimpleText(a.reader, "Enter photo URL (optional)", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.api.GoogleSignIn(ctx, email, name, photo)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.userName = user.Username
	printlnFn(fmt.Sprintf("Signed in as %s", user.Username))
	return nil
}

// SignOut ends the server session and forgets the local user.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.api.SignOut(ctx); err != nil {
		printlnFn(err.Error())
		return err
	}
	a.userName = ""
	printlnFn("User has been logged out!")
	return nil
}
