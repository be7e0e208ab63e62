package cli

import (
	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/padlock-app/padlock/internal/config"
	"github.com/padlock-app/padlock/internal/output"
)

// FormatterProvider wraps the formatter for kong binding.
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure.
type CLI struct {
	Globals

	Auth    AuthCmd    `cmd:"" help:"Authentication commands"`
	List    ListCmd    `cmd:"" help:"List stored credentials"`
	Add     AddCmd     `cmd:"" help:"Store a new credential"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a stored credential"`
	Browse  BrowseCmd  `cmd:"" help:"Interactive vault browser"`
	Config  ConfigCmd  `cmd:"" help:"Configuration commands"`
	Version VersionCmd `cmd:"" help:"Show version information"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// BeforeApply loads the config, resolves the server URL, and binds the
// dependencies every command Run method receives.
func (c *CLI) BeforeApply(ctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Server URL: flag/env > config > default.
	if c.Server != "" {
		cfg.ServerURL = c.Server
	}

	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput()),
	}

	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.Bind(NewApp(cfg, &c.Globals))

	return nil
}

// AuthCmd holds authentication subcommands.
type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"" help:"Log in to the vault server"`
	Logout AuthLogoutCmd `cmd:"" help:"Log out and remove the stored session"`
	Status AuthStatusCmd `cmd:"" help:"Show session status"`
}

// ConfigCmd holds configuration subcommands.
type ConfigCmd struct {
	Get   ConfigGetCmd   `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd   `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd `cmd:"" help:"Remove a configuration value"`
	List  ConfigListCmd  `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd  `cmd:"" help:"Show config file path"`
}
