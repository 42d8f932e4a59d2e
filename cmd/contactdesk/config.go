package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/contactdesk/internal/config"
	"github.com/muurk/contactdesk/internal/ui"
)

var configForce bool

// configCmd groups the config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		printer.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the file, environment and flags have
been merged, followed by the remembered endpoints.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Init(configPath, configForce)
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		if err != nil {
			return err
		}
		printer.PrintSuccess("Config file written", map[string]string{"Path": path})
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configPathCmd, configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	printer.Print(string(data))

	names := cfg.EndpointNames()
	if len(names) == 0 {
		return nil
	}
	rows := make([][]string, len(names))
	for i, name := range names {
		ep := cfg.Endpoint(name)
		path := ep.ContactsPath
		if path == "" {
			path = cfg.API.ContactsPath
		}
		rows[i] = []string{name, ep.BaseURL, path, ep.LastUsed.Local().Format(time.DateTime)}
	}
	printer.Println(ui.RenderHorizontalDivider(printer.Width(), "─"))
	printer.Println(ui.RenderTable([]string{"Endpoint", "Base URL", "Path", "Last used"}, rows, printer.Width()))
	return nil
}
