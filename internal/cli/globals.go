package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds flags available to every command.
type Globals struct {
	Server  string `help:"Vault server base URL (overrides config)" env:"PADLOCK_SERVER"`
	Output  string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"PADLOCK_OUTPUT"`
	Verbose bool   `help:"Verbose output" short:"v" env:"PADLOCK_VERBOSE"`
	NoInput bool   `help:"Disable interactive prompts (fail instead)" env:"PADLOCK_NO_INPUT"`
	Force   bool   `help:"Skip confirmation prompts for destructive operations" env:"PADLOCK_FORCE"`
}

// ResolvedOutput returns the effective output mode. "auto" picks rich on a
// TTY and plain otherwise.
func (g *Globals) ResolvedOutput() string {
	if g.Output != "auto" {
		return g.Output
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
