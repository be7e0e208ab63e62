package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/padlock-app/padlock/internal/config"
	"github.com/padlock-app/padlock/internal/output"
	"github.com/padlock-app/padlock/internal/secrets"
)

// AuthLoginCmd implements auth login.
type AuthLoginCmd struct {
	Username string `help:"Account username" short:"u"`
	Password string `help:"Account password (prompted when omitted)" env:"PADLOCK_PASSWORD"`
}

// Run executes the login command.
func (cmd *AuthLoginCmd) Run(app *App, cfg *config.Config, globals *Globals) error {
	username := cmd.Username
	if username == "" {
		username = cfg.Username
	}
	if username == "" {
		if globals.NoInput {
			return output.NewCLIError(output.ExitUsage, "Username required").
				WithHint("Pass --username or set it with: padlock config set username YOU")
		}
		var err error
		username, err = promptLine("Username: ")
		if err != nil {
			return output.Errorf(output.ExitUsage, "%v", err)
		}
	}
	if username == "" {
		return output.NewCLIError(output.ExitUsage, "Username required")
	}

	password := cmd.Password
	if password == "" {
		if globals.NoInput {
			return output.NewCLIError(output.ExitUsage, "Password required").
				WithHint("Pass --password or set PADLOCK_PASSWORD")
		}
		var err error
		password, err = promptSecret("Password: ")
		if err != nil {
			return output.Errorf(output.ExitUsage, "%v", err)
		}
	}

	manager, err := app.Manager()
	if err != nil {
		return err
	}

	userID, err := manager.Login(context.Background(), username, password)
	if err != nil {
		return classifyError(err)
	}

	// Remember the username for the next login.
	if cfg.Username != username {
		cfg.Username = username
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save username to config: %v\n", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s (user id %d)\n", username, userID)
	fmt.Fprintf(os.Stderr, "Session stored in %s\n", storageBackendName())
	return nil
}

// AuthLogoutCmd implements auth logout.
type AuthLogoutCmd struct{}

// Run executes the logout command.
func (cmd *AuthLogoutCmd) Run(app *App) error {
	manager, err := app.Manager()
	if err != nil {
		return err
	}

	// Remote invalidation is best-effort; local teardown always happens.
	if err := manager.Logout(context.Background()); err != nil {
		return classifyError(err)
	}

	fmt.Fprintln(os.Stderr, "Logged out")
	return nil
}

// AuthStatusCmd implements auth status.
type AuthStatusCmd struct{}

// Run executes the status command.
func (cmd *AuthStatusCmd) Run(app *App, cfg *config.Config, fp *FormatterProvider) error {
	manager, err := app.Manager()
	if err != nil {
		return err
	}

	status := struct {
		State    string
		Server   string
		Username string
		Storage  string
	}{
		State:    manager.State().String(),
		Server:   cfg.ServerURL,
		Username: cfg.Username,
		Storage:  storageBackendName(),
	}

	if err := fp.Formatter.Print(status); err != nil {
		return err
	}

	if status.State == "unauthenticated" {
		fp.Formatter.PrintHint("Run 'padlock auth login' to authenticate")
	}
	return nil
}

func storageBackendName() string {
	if secrets.IsWSL() || secrets.IsHeadless() {
		return "encrypted file"
	}
	return "keyring"
}
