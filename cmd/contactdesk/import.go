package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/muurk/contactdesk/internal/contact"
	"github.com/muurk/contactdesk/internal/contactapi"
	"github.com/muurk/contactdesk/internal/logging"
	"github.com/muurk/contactdesk/internal/ui"
)

const defaultImportParallel = 4

var importParallel int

// importCmd adds contacts from a file
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add contacts from a YAML or JSON file",
	Long: `Add every contact listed in a YAML or JSON file.

The file holds a list of contacts with name, phone, age and email. Entries
without an id get a fresh one. Up to --parallel contacts are sent at once;
a failed entry does not stop the others.`,
	Example: `  contactdesk import contacts.yaml
  contactdesk import export.json --parallel 8`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().IntVar(&importParallel, "parallel", defaultImportParallel, "Number of contacts sent at once")
	rootCmd.AddCommand(importCmd)
}

// readContactsFile parses a list of contacts. YAML is a superset of JSON,
// so one decoder serves both.
func readContactsFile(path string) ([]contact.Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var contacts []contact.Contact
	if err := yaml.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return contacts, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	contacts, err := readContactsFile(args[0])
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		printer.Println("No contacts in " + args[0])
		return nil
	}
	if importParallel < 1 {
		importParallel = 1
	}

	names := make([]string, len(contacts))
	for i, c := range contacts {
		names[i] = c.Name
		if c.ID == "" {
			contacts[i].ID = contact.NewID()
		}
	}

	progress := ui.NewProgress(fmt.Sprintf("Importing %d contacts", len(contacts)), names).SetWidth(printer.Width())
	client := newClient()
	ctx := cmd.Context()

	g := new(errgroup.Group)
	g.SetLimit(importParallel)
	for i, c := range contacts {
		i, c := i, c
		g.Go(func() error {
			if err := c.Draft().Validate(); err != nil {
				progress.Update(i, ui.ItemFailed, err.Error())
				return nil
			}

			progress.Update(i, ui.ItemRunning, "")
			if err := client.Add(ctx, c); err != nil {
				logging.Warn("Import failed", zap.String("name", c.Name), zap.Error(err))
				progress.Update(i, ui.ItemFailed, contactapi.ShortMessage(err))
				return nil
			}
			progress.Update(i, ui.ItemDone, "")
			return nil
		})
	}
	_ = g.Wait()

	printer.Println(progress.Render())
	printer.Newline()

	done, failed := progress.Counts()
	if failed > 0 {
		return fmt.Errorf("%d of %d contacts failed to import", failed, len(contacts))
	}
	printer.PrintSuccess("Import complete", map[string]string{
		"Imported": fmt.Sprintf("%d", done),
		"File":     args[0],
	})
	return nil
}
