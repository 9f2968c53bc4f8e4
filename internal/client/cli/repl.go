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
	canQuery() bool
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Select(ctx context.Context, path string) error
	Unselect(ctx context.Context) error
	Upload(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Confirm(ctx context.Context) error
	Cancel(ctx context.Context) error
	Ask(ctx context.Context, question string) error
	Status(ctx context.Context) error
}

const helpText = "Available commands: help, whoami, (l)ist, refresh, select <path>, unselect, upload, " +
	"delete <id>, confirm, cancel, ask <question>, status, exit"

// runREPL starts a simple read–eval–print loop for the lexqa CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, when ctx is done, or when
// the user types "exit" or "quit".
//
// promptFn renders the prompt; an empty prompt is not printed, which keeps
// piped input free of prompt noise.
//
// Commands taking free text ("select", "ask") receive the rest of the line
// verbatim, so paths and questions may contain spaces.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		if prompt := promptFn(); prompt != "" {
			printlnFn(prompt)
		}
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText)
			if !a.canQuery() {
				printlnFn("Questions are disabled until at least one document is uploaded.")
			}

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "select":
			if rest == "" {
				printlnFn("Usage: select <path>")
				continue
			}
			_ = a.Select(ctx, rest)

		case "unselect":
			_ = a.Unselect(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "delete":
			if rest == "" {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, rest)

		case "confirm":
			_ = a.Confirm(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "ask":
			_ = a.Ask(ctx, rest)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
