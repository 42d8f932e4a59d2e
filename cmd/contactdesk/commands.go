package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/contactdesk/internal/apicall"
	"github.com/muurk/contactdesk/internal/config"
	"github.com/muurk/contactdesk/internal/contact"
	"github.com/muurk/contactdesk/internal/contactapi"
	"github.com/muurk/contactdesk/internal/logging"
	"github.com/muurk/contactdesk/internal/roster"
	"github.com/muurk/contactdesk/internal/tui"
	"github.com/muurk/contactdesk/internal/ui"
)

// Command flags
var (
	listFormat string

	addName  string
	addPhone string
	addAge   int
	addEmail string

	updateSets []string

	deleteYes bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// runTable opens the interactive table, or prints the list when stdout is
// not a terminal.
func runTable(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return runList(cmd, args)
	}

	client := newClient()
	model := tui.NewModel(client, tui.Options{
		Endpoint:    client.CollectionURL(),
		CallTimeout: cfg.API.Timeout(),
		Tracker:     apicall.NewTracker(logBusy),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("contact table error: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Loaded {
		rememberConnection(client)
	}
	return nil
}

// logBusy records the table's idle and busy transitions.
func logBusy(loading bool) {
	logging.Debug("Contact table busy state", zap.Bool("loading", loading))
}

// rememberConnection records an endpoint that answered, keyed by host, in an
// existing config file.
func rememberConnection(client *contactapi.Client) {
	u, err := url.Parse(client.BaseURL)
	if err != nil || u.Host == "" {
		return
	}
	ep := config.Endpoint{BaseURL: client.BaseURL, ContactsPath: client.Path}
	if err := rememberEndpoints(map[string]config.Endpoint{u.Host: ep}, true); err != nil {
		logging.Warn("Failed to remember endpoint", zap.String("base_url", client.BaseURL), zap.Error(err))
	}
}

// listCmd prints all contacts
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contacts",
	Long: `Fetch every contact from the API and print them in API order.

Table output is meant for people; json and yaml output for scripts.`,
	Example: `  # Print a table
  contactdesk list

  # JSON for scripting
  contactdesk list --format json | jq '.[].email'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, json, yaml)")
}

func runList(cmd *cobra.Command, args []string) error {
	client := newClient()
	contacts, err := client.FetchAll(cmd.Context())
	if err != nil {
		return err
	}
	rememberConnection(client)

	switch listFormat {
	case "json":
		data, err := json.MarshalIndent(contacts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		printer.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(contacts)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		printer.Print(string(data))
	case "table", "":
		printer.PrintContacts(contacts)
	default:
		return fmt.Errorf("unknown format %q (use table, json or yaml)", listFormat)
	}
	return nil
}

// addCmd creates a contact
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact",
	Long: `Create a contact with a fresh id.

Name, phone and email are required and email must be an address.`,
	Example: `  contactdesk add --name Ann --phone 555-0100 --age 30 --email ann@example.com`,
	Args:    cobra.NoArgs,
	RunE:    runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "Contact name")
	addCmd.Flags().StringVar(&addPhone, "phone", "", "Phone number")
	addCmd.Flags().IntVar(&addAge, "age", 0, "Age in years")
	addCmd.Flags().StringVar(&addEmail, "email", "", "Email address")
}

func runAdd(cmd *cobra.Command, args []string) error {
	draft := contact.Draft{Name: addName, Phone: addPhone, Age: addAge, Email: addEmail}
	if err := draft.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	c := draft.WithID(contact.NewID())
	if err := newClient().Add(cmd.Context(), c); err != nil {
		return err
	}

	printer.PrintSuccess("Contact added", contactDetails(c))
	return nil
}

// updateCmd edits fields of an existing contact
var updateCmd = &cobra.Command{
	Use:   "update <id> --set field=value [--set field=value ...]",
	Short: "Update fields of a contact",
	Long: `Change one or more fields of an existing contact.

The contact is fetched, the given fields are replaced, and the whole contact
is sent back. Fields: name, phone, age, email.`,
	Example: `  contactdesk update 0f8fad5b --set age=31
  contactdesk update 0f8fad5b --set name="Ann Lee" --set email=ann@lee.dev`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "field=value to change (repeatable)")
	_ = updateCmd.MarkFlagRequired("set")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	client := newClient()
	contacts, err := client.FetchAll(cmd.Context())
	if err != nil {
		return err
	}

	r := roster.New()
	r.Load(contacts)
	id, err := resolveID(r, args[0])
	if err != nil {
		return err
	}

	if err := r.BeginEdit(id); err != nil {
		return err
	}
	for _, set := range updateSets {
		name, value, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: expected field=value", set)
		}
		field, err := contact.ParseField(name)
		if err != nil {
			return err
		}
		if err := r.SetField(id, field, value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	commit, err := r.CommitEdit(id)
	if err != nil {
		return err
	}
	if !commit.Changed() {
		printer.Println("No changes.")
		return nil
	}
	if err := client.Update(cmd.Context(), commit.Applied); err != nil {
		return err
	}

	printer.PrintSuccess("Contact updated", contactDetails(commit.Applied))
	return nil
}

// deleteCmd removes a contact
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Long: `Delete a contact by id. An unambiguous id prefix, as shown in the
interactive table, is accepted.

You are asked to type "yes" unless --yes is given.`,
	Example: `  contactdesk delete 0f8fad5b
  contactdesk delete 0f8fad5b --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	client := newClient()
	contacts, err := client.FetchAll(cmd.Context())
	if err != nil {
		return err
	}

	r := roster.New()
	r.Load(contacts)
	id, err := resolveID(r, args[0])
	if err != nil {
		return err
	}
	row, _, _ := r.Find(id)

	if !deleteYes {
		title := fmt.Sprintf("Delete contact %s?", row.Name)
		if !printer.Confirm(os.Stdin, title, []string{row.Contact.String(), "This cannot be undone"}) {
			return nil
		}
	}

	if err := client.Delete(cmd.Context(), id); err != nil {
		return err
	}
	printer.PrintSuccess("Contact deleted", contactDetails(row.Contact))
	return nil
}

// resolveID accepts a full id or a prefix matching exactly one contact.
func resolveID(r *roster.Roster, arg string) (string, error) {
	if r.Has(arg) {
		return arg, nil
	}

	var matches []string
	for _, id := range r.IDs() {
		if strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", roster.ErrNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func contactDetails(c contact.Contact) map[string]string {
	return map[string]string{
		"ID":    c.ID,
		"Name":  c.Name,
		"Phone": c.Phone,
		"Age":   strconv.Itoa(c.Age),
		"Email": c.Email,
	}
}

func isInteractive() bool {
	return ui.IsTerminal(os.Stdout) && ui.IsTerminal(os.Stdin)
}
