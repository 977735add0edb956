package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
	"github.com/dmitrijs2005/filesmanager/internal/client/config"
	"github.com/dmitrijs2005/filesmanager/internal/client/services"
	"github.com/dmitrijs2005/filesmanager/internal/client/state"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage error")

// ErrNotLoggedIn is returned by commands that need a saved session.
var ErrNotLoggedIn = errors.New("not logged in, run 'filesctl login' first")

type App struct {
	client client.Client
	auth   services.AuthService
	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

// NewApp opens the local state database and the API client described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := state.Open(ctx, c.StateFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.Timeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := newApp(apiClient, services.NewAuthService(apiClient, state.NewSQLiteStore(db), c.ServerURL), os.Stdin, os.Stdout)
	app.db = db
	return app, nil
}

func newApp(c client.Client, auth services.AuthService, in io.Reader, out io.Writer) *App {
	return &App{client: c, auth: auth, reader: bufio.NewReader(in), out: out}
}

// Close releases the state database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

type command func(ctx context.Context, args []string) error

func (a *App) commands() map[string]command {
	return map[string]command{
		"register":  a.register,
		"login":     a.login,
		"logout":    a.logout,
		"me":        a.me,
		"upload":    a.upload,
		"mkdir":     a.mkdir,
		"ls":        a.list,
		"show":      a.show,
		"publish":   a.publish,
		"unpublish": a.unpublish,
		"get":       a.get,
		"status":    a.status,
	}
}

// Run executes the subcommand named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.printHelp()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}

	cmd, ok := a.commands()[args[0]]
	if !ok {
		fmt.Fprintln(a.out, "Unknown command:", args[0])
		a.printHelp()
		return ErrUsage
	}

	return cmd(ctx, args[1:])
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Available commands: register, login, logout, me, upload, mkdir, ls, show, publish, unpublish, get, status")
}

// token returns the saved session token.
func (a *App) token(ctx context.Context) (string, error) {
	token, err := a.auth.Token(ctx)
	if errors.Is(err, state.ErrNoSession) {
		return "", ErrNotLoggedIn
	}
	return token, err
}
