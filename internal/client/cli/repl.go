package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	GoogleSignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	NewListing(ctx context.Context) error
	ShowListing(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the RealHome CLI.
//
// It reads a line, parses the first token as the command, and dispatches to
// methods on 'a'. Unknown commands are reported back to the user. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	Not signed in:
//	  - help           show available commands
//	  - signup         create an account
//	  - signin         authenticate with email and password
//	  - google         sign in with a Google profile
//	  - show           show a listing by id
//	  - exit | quit    leave the program
//
//	Signed in, additionally:
//	  - new            create a listing
//	  - signout        end the session
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rh> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: new, show, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, google, show, exit")
			}

		case "signup":
			_ = a.SignUp(ctx)

		case "signin":
			_ = a.SignIn(ctx)

		case "google":
			_ = a.GoogleSignIn(ctx)

		case "signout":
			_ = a.SignOut(ctx)

		case "new":
			_ = a.NewListing(ctx)

		case "show":
			_ = a.ShowListing(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to RealHome CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
