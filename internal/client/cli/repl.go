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
	Fields(ctx context.Context) error
	Get(ctx context.Context, args []string) error
	Edit(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Sync(ctx context.Context) error
	Discard(ctx context.Context) error
	Publish(ctx context.Context) error
}

// runREPL starts a read–eval–print loop over an editing session.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	help                  show available commands
//	fields | ls           list fields, changed ones marked with *
//	get <field>           show one field
//	edit                  enter or leave edit mode
//	set <field> [value]   change a field, prompting when value is omitted
//	status                show save and publish state
//	sync                  save pending edits now
//	discard               drop the draft and return to the published listing
//	publish               save pending edits and make the draft live
//	exit | quit           save and leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: fields, get, edit, set, status, sync, discard, publish, exit")

		case "fields", "ls":
			_ = a.Fields(ctx)

		case "get":
			_ = a.Get(ctx, args)

		case "edit":
			_ = a.Edit(ctx)

		case "set":
			_ = a.Set(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "discard":
			_ = a.Discard(ctx)

		case "publish":
			_ = a.Publish(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
