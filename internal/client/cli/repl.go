package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	Projects(ctx context.Context) error
	Swaps(ctx context.Context) error
	Propose(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Decline(ctx context.Context, args []string) error
	Messages(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	NewProject(ctx context.Context) error
	Join(ctx context.Context, args []string) error
	Toggle(ctx context.Context) error
	Refresh(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ShowError(ctx context.Context) error
	ClearError(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the SkillSwap CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the handler. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Prompt & Commands
//
//	Always:
//	  - help                                  — show available commands
//	  - users [skill]                         — list mirrored users, optionally by skill
//	  - projects                              — list mirrored projects
//	  - refresh                               — refetch every collection
//	  - error | clear                         — show / reset the last error
//	  - exit | quit                           — leave the program
//
//	Not logged in:
//	  - login | signup
//
//	Logged in:
//	  - swaps                                 — list your skill-swaps
//	  - propose <user> <offer> <want> [msg]   — propose a skill-swap
//	  - accept <swap> | decline <swap>
//	  - messages <swap> | send <swap> <text>
//	  - history <swap>
//	  - newproject | join <project>
//	  - toggle                                — flip your availability
//	  - whoami | logout
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors and the facade keeps the last one in its error slot.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ss %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: users, projects, swaps, propose, accept, decline, messages, send, history, newproject, join, toggle, refresh, whoami, error, clear, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, users, projects, refresh, error, clear, exit")
			}

		case "login":
			_ = a.Login(ctx)
		case "signup", "register":
			_ = a.Signup(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "users":
			_ = a.Users(ctx, args)
		case "projects":
			_ = a.Projects(ctx)
		case "swaps":
			_ = a.Swaps(ctx)

		case "propose":
			_ = a.Propose(ctx, args)
		case "accept":
			_ = a.Accept(ctx, args)
		case "decline":
			_ = a.Decline(ctx, args)
		case "messages":
			_ = a.Messages(ctx, args)
		case "send":
			_ = a.Send(ctx, args)
		case "history":
			_ = a.History(ctx, args)

		case "newproject":
			_ = a.NewProject(ctx)
		case "join":
			_ = a.Join(ctx, args)

		case "toggle":
			_ = a.Toggle(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "error":
			_ = a.ShowError(ctx)
		case "clear":
			_ = a.ClearError(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
