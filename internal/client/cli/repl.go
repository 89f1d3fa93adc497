package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/grpc/status"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// command is a REPL command handler. args are the words after the command
// name; handlers prompt for anything missing.
type command struct {
	run func(ctx context.Context, args []string) error
	// auth marks commands that need a logged-in session.
	auth bool
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"register":   {run: a.Register},
		"login":      {run: a.Login},
		"logout":     {run: a.Logout, auth: true},
		"create":     {run: a.Create, auth: true},
		"edit":       {run: a.Edit, auth: true},
		"mine":       {run: a.Mine, auth: true},
		"feed":       {run: a.Feed, auth: true},
		"view":       {run: a.View, auth: true},
		"publish":    {run: a.Publish, auth: true},
		"unpublish":  {run: a.Unpublish, auth: true},
		"sync":       {run: a.Sync, auth: true},
		"unsync":     {run: a.Unsync, auth: true},
		"delete":     {run: a.Delete, auth: true},
		"boost":      {run: a.Boost, auth: true},
		"report":     {run: a.Report, auth: true},
		"follow":     {run: a.Follow, auth: true},
		"unfollow":   {run: a.Unfollow, auth: true},
		"takedown":   {run: a.Takedown, auth: true},
		"dismiss":    {run: a.Dismiss, auth: true},
		"resetboost": {run: a.ResetBoost, auth: true},
		"dashboard":  {run: a.Dashboard, auth: true},
	}
}

func available(cmds map[string]command, loggedIn bool) string {
	names := []string{"help"}
	for name, c := range cmds {
		if c.auth == loggedIn {
			names = append(names, name)
		}
	}
	sort.Strings(names[1:])
	return strings.Join(append(names, "exit"), ", ")
}

// runREPL reads commands from scanner until EOF or "exit"/"quit" and
// dispatches them to cmds. Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, cmds map[string]command, loggedIn func() bool, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gm %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn("Available commands:", available(cmds, loggedIn()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := cmds[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if c.auth && !loggedIn() {
			printlnFn("Please login first")
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

// describe renders gRPC status errors without the transport prefix.
func describe(err error) string {
	if st, ok := status.FromError(err); ok {
		return fmt.Sprintf("%s: %s", st.Code(), st.Message())
	}
	return err.Error()
}
