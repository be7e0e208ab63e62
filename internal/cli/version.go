package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// VersionCmd shows version information.
type VersionCmd struct{}

// Run prints the version string injected at build time.
func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Println("padlock version " + ctx.Model.Vars()["version"])
	return nil
}
