package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. The services try the
// server first and the local account store second; the message shown to the
// user depends on which path succeeded.
func (a *App) Login(ctx context.Context) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	session, err := a.authService.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed. Please check your credentials and internet connection.")
		a.log.Error(ctx, "login failed", "error", err)
		return
	}

	switch session.Kind {
	case models.SessionOffline:
		printlnFn("Logged in offline mode, welcome " + session.User.Name)
		a.setMode(ModeOffline)
	default:
		printlnFn("Welcome, " + session.User.Name)
		a.setMode(ModeOnline)
	}
}

// Register prompts for account details and registers online or, when the
// server is unreachable, locally.
func (a *App) Register(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	result, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		printlnFn("Registration failed: " + err.Error())
		return
	}
	if result.Message != "" {
		printlnFn(result.Message)
	} else {
		printlnFn("Success!")
	}
}

// Logout drops the session and wipes all local data.
func (a *App) Logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Error(ctx, "error clearing local data on logout", "error", err)
	}
	printlnFn("Logged out.")
}
