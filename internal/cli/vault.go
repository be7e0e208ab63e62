package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/padlock-app/padlock/internal/output"
	"github.com/padlock-app/padlock/internal/vaultapi"
)

// recordRow is the display shape for one credential.
type recordRow struct {
	ID       int64
	Service  string
	Username string
	Password string
	Notes    string
}

var recordColumns = []output.Column{
	{Name: "ID", Key: "ID"},
	{Name: "Service", Key: "Service", Width: 24},
	{Name: "Username", Key: "Username", Width: 32},
	{Name: "Password", Key: "Password"},
	{Name: "Notes", Key: "Notes", Width: 40},
}

// ListCmd implements the list command.
type ListCmd struct {
	Reveal bool `help:"Show secret values in cleartext" short:"r"`
}

// Run executes the list command.
func (cmd *ListCmd) Run(app *App, fp *FormatterProvider) error {
	ctrl, err := app.Controller()
	if err != nil {
		return err
	}

	if err := ctrl.Refresh(context.Background()); err != nil {
		return classifyError(err)
	}

	view := ctrl.View()
	if len(view.Records) == 0 {
		fmt.Fprintln(os.Stderr, "No credentials stored")
		fmt.Fprintln(os.Stderr, "Run 'padlock add' to store one")
		return nil
	}

	rows := make([]recordRow, 0, len(view.Records))
	for _, r := range view.Records {
		rows = append(rows, recordRow{
			ID:       r.ID,
			Service:  r.ServiceName,
			Username: r.Username,
			Password: revealOrMask(r.Password, cmd.Reveal),
			Notes:    r.Notes,
		})
	}

	return fp.Formatter.PrintList(rows, recordColumns)
}

// AddCmd implements the add command.
type AddCmd struct {
	Service  string `help:"Service name (e.g. Gmail, Netflix)" short:"s" required:""`
	Username string `help:"Username or email for the service" short:"u" required:""`
	Password string `help:"Secret value (prompted when omitted)"`
	Notes    string `help:"Free-text notes" short:"n"`
}

// Run executes the add command.
func (cmd *AddCmd) Run(app *App, fp *FormatterProvider, globals *Globals) error {
	password := cmd.Password
	if password == "" && !globals.NoInput {
		var err error
		password, err = promptSecret("Password to store: ")
		if err != nil {
			return output.Errorf(output.ExitUsage, "%v", err)
		}
	}

	mutator, err := app.Mutator()
	if err != nil {
		return err
	}

	record, err := mutator.Create(context.Background(), cmd.Service, cmd.Username, password, cmd.Notes)
	if err != nil {
		return classifyError(err)
	}

	fmt.Fprintf(os.Stderr, "Stored %s (record id %d)\n", record.ServiceName, record.ID)
	return nil
}

// DeleteCmd implements the delete command.
type DeleteCmd struct {
	ID int64 `arg:"" help:"Record identifier (see 'padlock list')"`
}

// Run executes the delete command.
func (cmd *DeleteCmd) Run(app *App, fp *FormatterProvider, globals *Globals) error {
	ctrl, err := app.Controller()
	if err != nil {
		return err
	}
	mutator, err := app.Mutator()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := ctrl.Refresh(ctx); err != nil {
		return classifyError(err)
	}

	if globals.NoInput && !globals.Force {
		return output.NewCLIError(output.ExitUsage, "Deletion needs confirmation").
			WithHint("Pass --force to delete without a prompt")
	}

	confirm := func(record vaultapi.Record) bool {
		if globals.Force {
			return true
		}
		return promptYesNo(fmt.Sprintf("Delete %s (%s)? This cannot be undone [y/N]: ",
			record.ServiceName, record.Username))
	}

	if err := mutator.Delete(ctx, cmd.ID, confirm); err != nil {
		return classifyError(err)
	}

	fmt.Fprintf(os.Stderr, "Deleted record %d\n", cmd.ID)
	return nil
}
