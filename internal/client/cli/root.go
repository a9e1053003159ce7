package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = func(args ...any) { fmt.Println(args...) }

func (a *App) getStatus() string {
	s := ""
	if session := a.authService.Session(); session.LoggedIn() {
		s = session.User.Name + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the command loop until EOF or an exit command.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to Dinostories CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("dino %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: list, show <id>, add, bookmark <id>, bookmarks, pending, sync, logout, exit")
			} else {
				printlnFn("Available commands: register, login, list, show <id>, exit")
			}
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "list":
			a.List(ctx)
		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			a.Show(ctx, args[0])
		case "add":
			a.Add(ctx)
		case "bookmark":
			if len(args) == 0 {
				printlnFn("Usage: bookmark <id>")
				continue
			}
			a.Bookmark(ctx, args[0])
		case "bookmarks":
			a.Bookmarks(ctx)
		case "pending":
			a.Pending(ctx)
		case "sync":
			a.Sync(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
