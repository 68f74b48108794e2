// Package cli implements the one-shot trophy command line client.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/trophy/internal/client"
	gs "github.com/dmitrijs2005/trophy/internal/server/grpc"
)

var ErrUsage = errors.New(`usage: trophy-cli <command> [args]

commands:
  ping
  register <email> <name>
  login <email>                 prints an access token
  me
  projects [newest|most_starred]
  project <id>
  star <project-id>             toggles your star
  upload <project-id> <file>    uploads a project image
  dashboard [limit]`)

// API is the part of client.Client the commands use.
type API interface {
	Ping(ctx context.Context) (string, error)
	Register(ctx context.Context, req *gs.RegisterRequest) (*gs.UserMessage, error)
	Login(ctx context.Context, email, password string) (*gs.LoginResponse, error)
	Me(ctx context.Context) (*gs.ProfileResponse, error)
	GetProject(ctx context.Context, id int64) (*gs.ProjectMessage, error)
	ListProjects(ctx context.Context, sort string) ([]gs.ProjectMessage, error)
	ToggleStar(ctx context.Context, projectID int64) (*gs.ToggleStarResponse, error)
	UploadProjectImage(ctx context.Context, projectID int64, contentType string, body io.Reader) (string, error)
	Dashboard(ctx context.Context, limit int) ([]gs.NotificationMessage, error)
}

var _ API = (*client.Client)(nil)

type App struct {
	api      API
	out      io.Writer
	password func() (string, error)
}

// NewApp builds the command runner. password is asked for by register and
// login.
func NewApp(api API, out io.Writer, password func() (string, error)) *App {
	return &App{api: api, out: out, password: password}
}

// Exec runs one command.
func (a *App) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "ping":
		st, err := a.api.Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, st)
		return nil

	case "register":
		if len(rest) != 2 {
			return ErrUsage
		}
		pw, err := a.password()
		if err != nil {
			return err
		}
		u, err := a.api.Register(ctx, &gs.RegisterRequest{Email: rest[0], Name: rest[1], Password: pw})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "registered %s (id=%d)\n", u.Email, u.ID)
		return nil

	case "login":
		if len(rest) != 1 {
			return ErrUsage
		}
		pw, err := a.password()
		if err != nil {
			return err
		}
		resp, err := a.api.Login(ctx, rest[0], pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, resp.AccessToken)
		return nil

	case "me":
		p, err := a.api.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s <%s> %s, year %d\n", p.User.Name, p.User.Email, p.User.Branch, p.User.Year)
		for _, b := range p.Badges {
			fmt.Fprintf(a.out, "badge: %s\n", b.Name)
		}
		return a.printProjects(p.Projects)

	case "projects":
		sort := ""
		if len(rest) > 0 {
			sort = rest[0]
		}
		list, err := a.api.ListProjects(ctx, sort)
		if err != nil {
			return err
		}
		return a.printProjects(list)

	case "project":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		p, err := a.api.GetProject(ctx, id)
		if err != nil {
			return err
		}
		return a.printProjects([]gs.ProjectMessage{*p})

	case "star":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		resp, err := a.api.ToggleStar(ctx, id)
		if err != nil {
			return err
		}
		state := "unstarred"
		if resp.Starred {
			state = "starred"
		}
		fmt.Fprintf(a.out, "%s (%d stars)\n", state, resp.StarCount)
		return nil

	case "upload":
		if len(rest) != 2 {
			return ErrUsage
		}
		id, err := idArg(rest[:1])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(rest[1])
		if err != nil {
			return err
		}
		key, err := a.api.UploadProjectImage(ctx, id, http.DetectContentType(data), bytes.NewReader(data))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "uploaded %s\n", key)
		return nil

	case "dashboard":
		limit := 0
		if len(rest) > 0 {
			n, err := strconv.Atoi(rest[0])
			if err != nil {
				return ErrUsage
			}
			limit = n
		}
		list, err := a.api.Dashboard(ctx, limit)
		if err != nil {
			return err
		}
		for _, n := range list {
			fmt.Fprintf(a.out, "[%s] %s\n", n.Type, n.Message)
		}
		return nil
	}

	return ErrUsage
}

func idArg(rest []string) (int64, error) {
	if len(rest) != 1 {
		return 0, ErrUsage
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return 0, ErrUsage
	}
	return id, nil
}

func (a *App) printProjects(list []gs.ProjectMessage) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTARS\tOWNER")
	for _, p := range list {
		owner := ""
		if p.Owner != nil {
			owner = p.Owner.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", p.ID, p.Title, p.StarCount, owner)
	}
	return w.Flush()
}
