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

const helpText = `Available commands:
  cabins                     list cabins
  rename <id> [name]         rename a cabin
  photo <id> [file|-]        set a cabin photo, "-" removes it
  (l)ist                     list reservations by start date
  add                        create a reservation
  edit <id>                  edit a reservation
  delete <id>                delete a reservation
  month|cal [YYYY-MM]        show the month calendar
  next | prev | today        move the calendar
  day [YYYY-MM-DD]           reservations on a day
  stats                      totals and occupancy for the shown month
  insight                    ask the AI for an analysis
  apikey                     set the AI API key
  export [file]              write the calendar as .ics
  exit | quit                leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Cabins(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Month(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Prev(ctx context.Context, args []string) error
	Today(ctx context.Context, args []string) error
	Day(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Insight(ctx context.Context, args []string) error
	APIKey(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit" / "quit", or when ctx is done.
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ck %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "cabins":
			_ = a.Cabins(ctx, args)
		case "rename":
			_ = a.Rename(ctx, args)
		case "photo":
			_ = a.Photo(ctx, args)
		case "l", "list":
			_ = a.List(ctx, args)
		case "add":
			_ = a.Add(ctx, args)
		case "edit":
			_ = a.Edit(ctx, args)
		case "delete", "rm":
			_ = a.Delete(ctx, args)
		case "month", "cal":
			_ = a.Month(ctx, args)
		case "next":
			_ = a.Next(ctx, args)
		case "prev":
			_ = a.Prev(ctx, args)
		case "today":
			_ = a.Today(ctx, args)
		case "day":
			_ = a.Day(ctx, args)
		case "stats":
			_ = a.Stats(ctx, args)
		case "insight":
			_ = a.Insight(ctx, args)
		case "apikey":
			_ = a.APIKey(ctx, args)
		case "export":
			_ = a.Export(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd, "(type 'help')")
		}

		if err != nil {
			return
		}
	}
}
