package cli

import (
	"errors"
	"sync"

	"github.com/padlock-app/padlock/internal/auth"
	"github.com/padlock-app/padlock/internal/config"
	"github.com/padlock-app/padlock/internal/output"
	"github.com/padlock-app/padlock/internal/secrets"
	"github.com/padlock-app/padlock/internal/session"
	"github.com/padlock-app/padlock/internal/vault"
	"github.com/padlock-app/padlock/internal/vaultapi"
)

// App lazily wires the full stack: secrets store, session cache, API
// client, auth manager, vault controller, and mutation flows. Construction
// happens once, on first use, so commands that never touch the network
// (config, version) stay cheap.
type App struct {
	cfg     *config.Config
	globals *Globals

	once    sync.Once
	err     error
	store   secrets.Store
	sess    *session.Session
	client  *vaultapi.Client
	manager *auth.Manager
	ctrl    *vault.Controller
	mutator *vault.Mutator
}

// NewApp creates an App over the given config.
func NewApp(cfg *config.Config, globals *Globals) *App {
	return &App{cfg: cfg, globals: globals}
}

func (a *App) init() {
	a.once.Do(func() {
		store, err := secrets.NewStore()
		if err != nil {
			a.err = output.Errorf(output.ExitGeneral, "Failed to initialize secrets store: %v", err)
			return
		}
		a.store = store

		a.sess = session.New(store)

		client, err := vaultapi.NewClient(a.cfg.ServerURL, a.sess)
		if err != nil {
			a.err = output.Errorf(output.ExitConfigError, "Failed to create API client: %v", err)
			return
		}
		a.client = client

		a.manager = auth.NewManager(store, a.sess, client)
		// Any 401 anywhere tears the session down, same as explicit logout.
		client.OnUnauthorized(a.manager.ForceTeardown)

		a.ctrl = vault.NewController(client)
		a.mutator = vault.NewMutator(client, a.ctrl)

		// Commands run one-shot; wait for hydration so the first request
		// carries the persisted credential.
		<-a.sess.Ready()
	})
}

// Manager returns the auth flow manager.
func (a *App) Manager() (*auth.Manager, error) {
	a.init()
	return a.manager, a.err
}

// Controller returns the vault list controller.
func (a *App) Controller() (*vault.Controller, error) {
	a.init()
	return a.ctrl, a.err
}

// Mutator returns the record mutation flows.
func (a *App) Mutator() (*vault.Mutator, error) {
	a.init()
	return a.mutator, a.err
}

// Session returns the session cache.
func (a *App) Session() (*session.Session, error) {
	a.init()
	return a.sess, a.err
}

// classifyError maps domain errors to CLIErrors with the right exit code
// and user-facing hint. Already-classified errors pass through.
func classifyError(err error) error {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var vErr *vault.ValidationError
	if errors.As(err, &vErr) {
		return output.NewCLIError(output.ExitValidation, vErr.Error())
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		return output.NewCLIError(output.ExitAuth, "Invalid username or password")
	}

	if errors.Is(err, vaultapi.ErrUnauthorized) {
		return output.NewCLIError(output.ExitAuth, "Session expired").
			WithHint("Run: padlock auth login")
	}

	if errors.Is(err, vault.ErrRecordNotFound) {
		return output.NewCLIError(output.ExitNotFound, "No such record")
	}

	if errors.Is(err, vault.ErrDeleteDeclined) {
		return output.NewCLIError(output.ExitGeneral, "Aborted")
	}

	if errors.Is(err, vault.ErrDeleteInFlight) {
		return output.NewCLIError(output.ExitGeneral, "Delete already in progress for that record")
	}

	var transportErr *vaultapi.TransportError
	if errors.As(err, &transportErr) {
		code := output.ExitNetworkError
		msg := "Could not reach the vault server"
		if transportErr.Timeout() {
			code = output.ExitTimeout
			msg = "Request timed out"
		}
		return output.Errorf(code, "%s: %v", msg, transportErr.Err).
			WithHint("Check the server URL (padlock config get server_url) and try again")
	}

	var apiErr *vaultapi.APIError
	if errors.As(err, &apiErr) {
		return output.NewCLIError(output.ExitAPIError, apiErr.Message)
	}

	return output.Errorf(output.ExitGeneral, "%v", err)
}
