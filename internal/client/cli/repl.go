package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Mood(ctx context.Context, args []string) error
	Journal(ctx context.Context, args []string) error
	Memory(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Insights(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
}

const helpText = `Available commands:
  mood add [1-5] [slot] [date] | mood list [n] | mood delete <id>|<date> <slot>
  journal list | new [title] | open <id> | delete <id> | write | entries [n]
  memory show | set <field> | clear <field> | refresh | names <text>
  profile show | set <field> <value>
  insights [day|week|month|year] | generate [range] | circle
  sync, help, exit`

// runREPL reads one command per line from reader, dispatches it to a and
// prints any error. It returns on EOF, on "exit"/"quit" or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mk %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "mood", "m":
			cmdErr = a.Mood(ctx, args)
		case "journal", "j":
			cmdErr = a.Journal(ctx, args)
		case "memory":
			cmdErr = a.Memory(ctx, args)
		case "profile":
			cmdErr = a.Profile(ctx, args)
		case "insights":
			cmdErr = a.Insights(ctx, args)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}
