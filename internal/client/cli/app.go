package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/securevault/vaultctl/internal/client/admin"
	"github.com/securevault/vaultctl/internal/client/api"
	"github.com/securevault/vaultctl/internal/client/config"
	"github.com/securevault/vaultctl/internal/client/output"
	"github.com/securevault/vaultctl/internal/client/session"
	"github.com/securevault/vaultctl/internal/client/submit"
	"github.com/securevault/vaultctl/internal/client/vault"
	"github.com/securevault/vaultctl/internal/logging"
)

// App wires the client components together and carries the interactive
// command handlers.
type App struct {
	config   *config.Config
	logger   logging.Logger
	printer  *output.Printer
	client   api.Client
	sessions *session.Manager
	store    *vault.Store
	users    *admin.Directory
	form     *submit.Form

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, logger logging.Logger) *App {
	httpClient := api.NewHTTPClient(cfg.ServerEndpoint, cfg.RequestTimeout, logger)
	sessions := session.NewManager(session.NewFileTokenStore(cfg.TokenFile), logger)
	httpClient.UseTokenSource(sessions.Token)

	a := &App{
		config:   cfg,
		logger:   logger,
		printer:  output.NewPrinter(),
		client:   httpClient,
		sessions: sessions,
		store:    vault.NewStore(httpClient, logger),
		users:    admin.NewDirectory(httpClient, logger),
		form:     submit.NewForm(httpClient, logger),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	// A 401 from any authenticated call ends the session, whatever command
	// was running.
	httpClient.OnUnauthorized(func() {
		sessions.Logout(context.Background())
		a.printer.Warning("Session expired, please log in again.")
	})

	return a
}

// Run restores the persisted session and starts the command loop. No gated
// command dispatches before the restore completes.
func (a *App) Run(ctx context.Context) {
	a.sessions.Restore(ctx)

	state := a.sessions.Snapshot()
	if state.IsAuthenticated() {
		a.printer.Info("Welcome back, %s.", state.Identity.DisplayName)
	} else {
		a.printer.Info("Welcome to vaultctl (type 'help' for commands).")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) sessionState() session.State {
	return a.sessions.Snapshot()
}

func (a *App) statusLine() string {
	state := a.sessions.Snapshot()
	if state.Loading {
		return "restoring"
	}
	if !state.IsAuthenticated() {
		return "logged out"
	}
	if state.Identity.Role == session.RoleAdmin {
		return state.Identity.SubjectEmail + " admin"
	}
	return state.Identity.SubjectEmail
}
