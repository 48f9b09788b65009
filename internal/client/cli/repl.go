package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Users(ctx context.Context) error
	Groups(ctx context.Context) error
	NewGroup(ctx context.Context) error
	Resources(ctx context.Context) error
	Upload(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	DM(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error
	History(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Campus Connect CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - whoami             — show the current identity
//	  - users              — list users available for direct messages
//	  - groups             — list study groups
//	  - newgroup           — create a study group
//	  - resources          — list shared study resources
//	  - upload             — upload a file to the resource library
//	  - edit <id>          — edit a resource's title/description/category
//	  - delete <id>        — delete a resource
//	  - download <id>      — download a resource into ./downloads
//	  - open <group-id>    — open a group conversation
//	  - dm <user-id>       — open a direct conversation
//	  - attach <path>      — stage a file for the next send
//	  - send <text>        — send a message to the open conversation
//	  - history            — reprint the open conversation
//	  - logout             — log out
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are printed here so the loop stays
// resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}

	for {
		printlnFn(fmt.Sprintf("cc %s> ", statusFn()))
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
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, users, groups, newgroup, resources, upload, edit, delete, download, open, dm, attach, send, history, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "whoami":
			report(a.Whoami(ctx))

		case "users":
			report(a.Users(ctx))

		case "groups":
			report(a.Groups(ctx))

		case "newgroup":
			report(a.NewGroup(ctx))

		case "resources":
			report(a.Resources(ctx))

		case "upload":
			report(a.Upload(ctx))

		case "edit":
			report(a.Edit(ctx, args))

		case "delete":
			report(a.Delete(ctx, args))

		case "download":
			report(a.Download(ctx, args))

		case "open":
			report(a.Open(ctx, args))

		case "dm":
			report(a.DM(ctx, args))

		case "attach":
			report(a.Attach(ctx, args))

		case "send":
			report(a.Send(ctx, args))

		case "history":
			report(a.History(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
