package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/securevault/vaultctl/internal/client/gate"
	"github.com/securevault/vaultctl/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	sessionState() session.State
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Reveal(ctx context.Context) error
	Edit(ctx context.Context) error
	Add(ctx context.Context) error
	DeleteField(ctx context.Context) error
	DeleteCategory(ctx context.Context) error
	Users(ctx context.Context) error
	DeleteUser(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the vaultctl CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Every gated command goes through
// the same decision: wait while the session restore runs, ask for login when
// unauthenticated, and treat admin commands from non-admins exactly like
// commands that do not exist. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
//	Logged out:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - reset          — recover a forgotten password
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - list           — list vault categories
//	  - search <term>  — filter categories by name
//	  - reveal         — decrypt and show a category's fields
//	  - edit           — change one field value
//	  - add            — store a new field value
//	  - delfield       — delete one field
//	  - delcat         — delete a whole category
//	  - logout         — log out
//
//	Admins additionally have "users" and "deluser".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the loop focused on dispatch.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vault (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
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
			printHelp(a.sessionState())

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "list":
			guarded(ctx, a, cmd, false, a.List)

		case "search":
			term := strings.Join(args, " ")
			guarded(ctx, a, cmd, false, func(ctx context.Context) error {
				return a.Search(ctx, term)
			})

		case "reveal":
			guarded(ctx, a, cmd, false, a.Reveal)

		case "edit":
			guarded(ctx, a, cmd, false, a.Edit)

		case "add":
			guarded(ctx, a, cmd, false, a.Add)

		case "delfield":
			guarded(ctx, a, cmd, false, a.DeleteField)

		case "delcat":
			guarded(ctx, a, cmd, false, a.DeleteCategory)

		case "users":
			guarded(ctx, a, cmd, true, a.Users)

		case "deluser":
			guarded(ctx, a, cmd, true, a.DeleteUser)

		case "logout":
			guarded(ctx, a, cmd, false, a.Logout)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// guarded dispatches one gated command. A NotFound decision prints the exact
// unknown-command line so a denied command is indistinguishable from a
// missing one.
func guarded(ctx context.Context, a execIface, cmd string, adminOnly bool, run func(context.Context) error) {
	switch gate.Decide(a.sessionState(), adminOnly) {
	case gate.Wait:
		printlnFn("Session restore in progress, try again in a moment.")
	case gate.RedirectLogin:
		printlnFn("Please log in first.")
	case gate.NotFound:
		printlnFn("Unknown command:", cmd)
	case gate.Render:
		_ = run(ctx)
	}
}

func printHelp(state session.State) {
	if !state.IsAuthenticated() {
		printlnFn("Available commands: register, login, reset, exit")
		return
	}
	if state.Identity.Role == session.RoleAdmin {
		printlnFn("Available commands: list, search, reveal, edit, add, delfield, delcat, users, deluser, logout, exit")
		return
	}
	printlnFn("Available commands: list, search, reveal, edit, add, delfield, delcat, logout, exit")
}
