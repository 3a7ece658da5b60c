// Command eventctl drives the event API from a terminal, keeping its session in a local sqlite file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/baharkarakas/event-hub/internal/client"
	"github.com/baharkarakas/event-hub/internal/config"
	"github.com/baharkarakas/event-hub/internal/models"
)

const usage = `usage: eventctl <command> [flags]

commands:
  register -username U -email E -password P
  login    -email E -password P
  logout
  whoami
  events   [-type Workshop]
  show     <eventId>
  create   -title T -description D -type Workshop -date 2025-03-01 [-time 18:00] [-location L]
  update   <eventId> [same flags as create; only the ones given change]
  delete   <eventId>
  join     <eventId>
  leave    <eventId>
  mine
  open     <path>      check a view against the session guard
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "eventctl:", err)
		var redirect *client.RedirectError
		if errors.As(err, &redirect) {
			fmt.Fprintf(os.Stderr, "session ended; go to %s (eventctl login)\n", redirect.To)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}
	cfg := config.LoadClient()
	store, err := client.OpenSQLiteStore(cfg.SessionDB, client.Keys{Token: cfg.TokenKey, User: cfg.UserKey})
	if err != nil {
		return err
	}
	defer store.Close()
	return dispatch(ctx, client.New(cfg.APIURL, store, nil), store, args, out)
}

func dispatch(ctx context.Context, c *client.Client, store client.SessionStore, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)

	switch cmd {
	case "register":
		username := fs.String("username", "", "display name")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		u, err := c.Register(ctx, *username, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "registered %s (%s)\n", u.Username, u.Email)

	case "login":
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		sess, err := c.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "logged in as %s (%s)\n", sess.User.Username, sess.User.Role)

	case "logout":
		if err := c.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "logged out")

	case "whoami":
		u, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s <%s> %s\n", u.Username, u.Email, u.Role)

	case "events":
		typ := fs.String("type", "", "filter by event type")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		events, err := c.ListEvents(ctx, models.EventFilter{Type: models.EventType(*typ)})
		if err != nil {
			return err
		}
		printEvents(out, events)

	case "mine":
		events, err := c.MyEvents(ctx)
		if err != nil {
			return err
		}
		printEvents(out, events)

	case "show":
		id, err := oneArg(fs, rest, "eventId")
		if err != nil {
			return err
		}
		e, err := c.GetEvent(ctx, id)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(e)

	case "create":
		in, err := parseEventInput(fs, rest)
		if err != nil {
			return err
		}
		e, err := c.CreateEvent(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %s %q\n", e.ID, e.Title)

	case "update":
		if len(rest) == 0 || strings.HasPrefix(rest[0], "-") {
			return fmt.Errorf("update: expected <eventId>")
		}
		id := rest[0]
		in, err := parseEventInput(fs, rest[1:])
		if err != nil {
			return err
		}
		e, err := c.UpdateEvent(ctx, id, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated %s %q\n", e.ID, e.Title)

	case "delete":
		id, err := oneArg(fs, rest, "eventId")
		if err != nil {
			return err
		}
		if err := c.DeleteEvent(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted", id)

	case "join":
		id, err := oneArg(fs, rest, "eventId")
		if err != nil {
			return err
		}
		reg, err := c.RegisterForEvent(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "registered (%s)\n", reg.ID)

	case "leave":
		id, err := oneArg(fs, rest, "eventId")
		if err != nil {
			return err
		}
		if err := c.CancelForEvent(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(out, "registration cancelled")

	case "open":
		path, err := oneArg(fs, rest, "path")
		if err != nil {
			return err
		}
		d, err := client.NewGuard(store, nil).Check(ctx, path)
		if err != nil {
			return err
		}
		if d.Allow {
			fmt.Fprintf(out, "allow %s\n", d.Route.Path)
		} else {
			fmt.Fprintf(out, "redirect %s\n", d.Redirect)
		}

	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func oneArg(fs *flag.FlagSet, rest []string, name string) (string, error) {
	if err := fs.Parse(rest); err != nil {
		return "", err
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return "", fmt.Errorf("%s: expected <%s>", fs.Name(), name)
	}
	return fs.Arg(0), nil
}

// parseEventInput fills only the fields whose flags were given, so update leaves the rest untouched.
func parseEventInput(fs *flag.FlagSet, rest []string) (models.EventInput, error) {
	title := fs.String("title", "", "title")
	desc := fs.String("description", "", "description")
	typ := fs.String("type", "", "one of "+typeList())
	date := fs.String("date", "", "YYYY-MM-DD")
	clock := fs.String("time", "", "HH:mm, empty clears")
	loc := fs.String("location", "", "location, empty clears")
	if err := fs.Parse(rest); err != nil {
		return models.EventInput{}, err
	}

	var (
		in  models.EventInput
		err error
	)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = title
		case "description":
			in.Description = desc
		case "type":
			t := models.EventType(*typ)
			in.Type = &t
		case "date":
			d, perr := models.ParseDate(*date)
			if perr != nil {
				err = fmt.Errorf("-date: %w", perr)
				return
			}
			in.Date = &d
		case "time":
			in.Time = clock
		case "location":
			in.Location = loc
		}
	})
	return in, err
}

func typeList() string {
	s := make([]string, len(models.EventTypes))
	for i, t := range models.EventTypes {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

func printEvents(out io.Writer, events []models.Event) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tTITLE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Type, e.Title)
	}
	_ = tw.Flush()
}
