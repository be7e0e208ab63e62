package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/padlock-app/padlock/internal/output"
	"github.com/padlock-app/padlock/internal/vault"
	"github.com/padlock-app/padlock/internal/vaultapi"
)

// BrowseCmd implements the interactive vault browser.
type BrowseCmd struct{}

// Run executes the browser loop. Secrets start masked; reveal state is
// per-record and lives only for the duration of the session.
func (cmd *BrowseCmd) Run(app *App, fp *FormatterProvider, globals *Globals) error {
	if globals.NoInput {
		return output.NewCLIError(output.ExitUsage, "browse is interactive").
			WithHint("Use 'padlock list' for scripted output")
	}

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
		printLoopError(fp, err)
	}

	reader := bufio.NewReader(os.Stdin)
	renderView(fp, ctrl.View())
	printBrowseHelp()

	for {
		fmt.Fprint(os.Stderr, "padlock> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stderr)
				ctrl.Invalidate()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q", "quit", "exit":
			// Reveal state does not survive leaving the browser.
			ctrl.Invalidate()
			return nil

		case "help", "?":
			printBrowseHelp()

		case "list", "ls":
			renderView(fp, ctrl.View())

		case "sync", "refresh":
			if err := ctrl.Refresh(ctx); err != nil {
				printLoopError(fp, err)
				continue
			}
			renderView(fp, ctrl.View())

		case "reveal", "show":
			cmd.setRevealed(ctrl, fp, fields, true)

		case "hide":
			cmd.setRevealed(ctrl, fp, fields, false)

		case "add":
			if err := cmd.addRecord(ctx, mutator); err != nil {
				printLoopError(fp, err)
				continue
			}
			renderView(fp, ctrl.View())

		case "del", "delete", "rm":
			if err := cmd.deleteRecord(ctx, ctrl, mutator, fields); err != nil {
				printLoopError(fp, err)
				continue
			}
			renderView(fp, ctrl.View())

		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s (try 'help')\n", fields[0])
		}
	}
}

// setRevealed flips a record's reveal state toward the wanted value. A
// record already in the wanted state is left alone.
func (cmd *BrowseCmd) setRevealed(ctrl *vault.Controller, fp *FormatterProvider, fields []string, want bool) {
	id, err := parseRecordID(fields)
	if err != nil {
		printLoopError(fp, err)
		return
	}

	if ctrl.View().Revealed[id] != want {
		if !ctrl.ToggleReveal(id) {
			printLoopError(fp, vault.ErrRecordNotFound)
			return
		}
	}
	renderView(fp, ctrl.View())
}

func (cmd *BrowseCmd) addRecord(ctx context.Context, mutator *vault.Mutator) error {
	service, err := promptLine("Service: ")
	if err != nil {
		return err
	}
	username, err := promptLine("Username: ")
	if err != nil {
		return err
	}
	password, err := promptSecret("Password: ")
	if err != nil {
		return err
	}
	notes, err := promptLine("Notes (optional): ")
	if err != nil {
		return err
	}

	record, err := mutator.Create(ctx, service, username, password, notes)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Stored %s (record id %d)\n", record.ServiceName, record.ID)
	return nil
}

func (cmd *BrowseCmd) deleteRecord(ctx context.Context, ctrl *vault.Controller, mutator *vault.Mutator, fields []string) error {
	id, err := parseRecordID(fields)
	if err != nil {
		return err
	}

	confirm := func(record vaultapi.Record) bool {
		return promptYesNo(fmt.Sprintf("Delete %s (%s)? This cannot be undone [y/N]: ",
			record.ServiceName, record.Username))
	}

	if err := mutator.Delete(ctx, id, confirm); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Deleted record %d\n", id)
	return nil
}

func parseRecordID(fields []string) (int64, error) {
	if len(fields) < 2 {
		return 0, output.NewCLIError(output.ExitUsage, "Record id required (e.g. 'reveal 3')")
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, output.Errorf(output.ExitUsage, "Not a record id: %s", fields[1])
	}
	return id, nil
}

// renderView prints the current snapshot with per-record reveal state
// applied. Records with an in-flight delete are marked.
func renderView(fp *FormatterProvider, view vault.View) {
	if len(view.Records) == 0 {
		fmt.Fprintln(os.Stderr, "Vault is empty")
		return
	}

	rows := make([]recordRow, 0, len(view.Records))
	for _, r := range view.Records {
		row := recordRow{
			ID:       r.ID,
			Service:  r.ServiceName,
			Username: r.Username,
			Password: revealOrMask(r.Password, view.Revealed[r.ID]),
			Notes:    r.Notes,
		}
		if view.Deleting[r.ID] {
			row.Notes = strings.TrimSpace(row.Notes + " (deleting)")
		}
		rows = append(rows, row)
	}

	if err := fp.Formatter.PrintList(rows, recordColumns); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
	}
}

func printLoopError(fp *FormatterProvider, err error) {
	classified := classifyError(err)
	fp.Formatter.PrintError(classified)
	var cliErr *output.CLIError
	if errors.As(classified, &cliErr) && cliErr.Hint != "" {
		fp.Formatter.PrintHint(cliErr.Hint)
	}
}

func printBrowseHelp() {
	fmt.Fprintln(os.Stderr, "Commands: list, sync, reveal N, hide N, add, del N, help, quit")
}
