package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/padlock-app/padlock/internal/config"
	"github.com/padlock-app/padlock/internal/output"
)

// ConfigGetCmd implements config get.
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g. server_url, username)"`
}

// Run executes the get command.
func (cmd *ConfigGetCmd) Run(cfg *config.Config) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return output.Errorf(output.ExitNotFound, "Unknown config key: %s", cmd.Key)
	}

	fmt.Println(value)
	return nil
}

// ConfigSetCmd implements config set.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command.
func (cmd *ConfigSetCmd) Run(cfg *config.Config) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return output.Errorf(output.ExitUsage, "Unknown config key: %s", cmd.Key)
	}

	if cmd.Key == "server_url" {
		u, err := url.Parse(cmd.Value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return output.Errorf(output.ExitUsage, "Invalid server URL: %s", cmd.Value).
				WithHint("Expected something like http://127.0.0.1:5000/api")
		}
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return output.Errorf(output.ExitGeneral, "Failed to set config: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset.
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command.
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return output.Errorf(output.ExitUsage, "Unknown config key: %s", cmd.Key)
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return output.Errorf(output.ExitGeneral, "Failed to unset config: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListCmd implements config list.
type ConfigListCmd struct{}

// Run executes the list command.
func (cmd *ConfigListCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	type ConfigItem struct {
		Key   string
		Value string
	}

	items := []ConfigItem{
		{Key: "server_url", Value: cfg.ServerURL},
		{Key: "username", Value: cfg.Username},
		{Key: "default_output", Value: cfg.DefaultOutput},
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
	}

	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path.
type ConfigPathCmd struct{}

// Run executes the path command.
func (cmd *ConfigPathCmd) Run() error {
	path := config.ConfigPath()
	fmt.Println(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "(file does not exist yet - will be created on first write)")
	} else {
		fmt.Fprintln(os.Stderr, "(file exists)")
	}

	return nil
}
