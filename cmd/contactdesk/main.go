// Contactdesk is a terminal contact manager for a contacts REST API.
//
// Running without arguments opens the interactive contact table, where
// contacts can be added, edited in place and deleted. The subcommands offer
// the same operations non-interactively for scripts.
//
// Usage:
//
//	contactdesk [command] [flags]
//
// See 'contactdesk --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/contactdesk/internal/config"
	"github.com/muurk/contactdesk/internal/contactapi"
	"github.com/muurk/contactdesk/internal/discovery"
	"github.com/muurk/contactdesk/internal/logging"
	"github.com/muurk/contactdesk/internal/ui"
	"github.com/muurk/contactdesk/internal/version"
)

// logFileName is used for the interactive table when a log level is set
// without a log file.
const logFileName = "contactdesk.log"

// Global flags
var (
	configPath   string
	apiURL       string
	endpointName string
	apiTimeout   time.Duration
	logLevel     string
	logFile      string
)

// Resolved by setup before any command runs
var (
	cfg     *config.Config
	printer *ui.Printer
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	logging.Sync()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	hint := ""
	if _, ok := contactapi.AsAPIError(err); ok {
		hint = contactapi.Hint(err)
	}
	ui.NewPrinter(os.Stderr).PrintError("contactdesk", err, hint)
}

var rootCmd = &cobra.Command{
	Use:   "contactdesk",
	Short: "Terminal contact manager",
	Long: `A terminal client for a contacts REST API.

Without a command, the interactive contact table opens. Contacts can be
added (a), edited in place (e), and deleted (d). When stdout is not a
terminal the contact list is printed instead.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTable,
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd.
	rootCmd.PersistentPreRunE = setup
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default is the OS config dir)")
	flags.StringVar(&apiURL, "api-url", "", "Contacts API base URL (env "+config.EnvAPIURL+")")
	flags.StringVar(&endpointName, "endpoint", "", "Use a remembered endpoint by name (see 'scan')")
	flags.DurationVar(&apiTimeout, "timeout", 0, "API request timeout, e.g. 5s")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file (env "+config.EnvLogFile+")")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("contactdesk %s\n", version.Full())
	},
}

// setup loads .env files and the configuration, applies flag overrides and
// starts logging.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var err error
	cfg, err = config.Resolve(configPath, config.Overrides{
		BaseURL:  apiURL,
		Timeout:  apiTimeout,
		LogLevel: logLevel,
		LogFile:  logFile,
	})
	if err != nil {
		return err
	}

	opts := logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}
	if opts.Level != "" && opts.File == "" && cmd == rootCmd && ui.IsTerminal(os.Stdout) {
		if dir, err := config.GetConfigDir(); err == nil && os.MkdirAll(dir, 0o700) == nil {
			opts.File = filepath.Join(dir, logFileName)
		}
	}
	if err := logging.Initialize(opts); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	printer = ui.NewPrinter(os.Stdout)

	if endpointName != "" && apiURL == "" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := selectEndpoint(ctx, endpointName); err != nil {
			return err
		}
	}

	logging.Debug("Configuration resolved",
		zap.String("command", cmd.Name()),
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("contacts_path", cfg.API.ContactsPath),
		zap.Duration("timeout", cfg.API.Timeout()))
	return nil
}

// findEndpoint browses the network for a named contacts API.
// Tests replace it.
var findEndpoint = func(ctx context.Context, instance string) (*discovery.Endpoint, error) {
	scanner := discovery.NewScanner()
	scanner.Service = cfg.Discovery.Service
	scanner.Timeout = cfg.Discovery.Timeout()
	return scanner.Find(ctx, instance)
}

// selectEndpoint points cfg at the named endpoint. A name that is not
// remembered is looked up with mDNS and remembered once found.
func selectEndpoint(ctx context.Context, name string) error {
	if ep := cfg.Endpoint(name); ep != nil {
		cfg.UseEndpoint(*ep)
		return nil
	}

	logging.Info("Endpoint not remembered, browsing for it", zap.String("endpoint", name))
	found, err := findEndpoint(ctx, name)
	if err != nil {
		return fmt.Errorf("unknown endpoint %q (known: %v): %w", name, cfg.EndpointNames(), err)
	}

	ep := endpointFromDiscovery(found)
	cfg.UseEndpoint(ep)
	if err := rememberEndpoints(map[string]config.Endpoint{found.Instance: ep}, false); err != nil {
		logging.Warn("Failed to remember endpoint", zap.String("endpoint", found.Instance), zap.Error(err))
	}
	return nil
}

// endpointFromDiscovery keeps the advertised collection path with the URL.
func endpointFromDiscovery(ep *discovery.Endpoint) config.Endpoint {
	return config.Endpoint{BaseURL: ep.BaseURL(), ContactsPath: ep.Path}
}

// newClient returns an API client for the resolved configuration.
func newClient() *contactapi.Client {
	client := contactapi.NewClient(cfg.API.BaseURL)
	client.SetPath(cfg.API.ContactsPath)
	client.SetTimeout(cfg.API.Timeout())
	return client
}

// resolvedConfigPath returns --config or the default location.
func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// rememberEndpoints records endpoints by name in the config file. The file
// is read fresh so flag and environment overrides are not written back. With
// onlyIfExists nothing is written unless a config file is already present.
func rememberEndpoints(endpoints map[string]config.Endpoint, onlyIfExists bool) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	if onlyIfExists {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	fileCfg, err := config.Load(path)
	if err != nil {
		return err
	}
	for name, ep := range endpoints {
		fileCfg.RememberEndpoint(name, ep)
	}
	return fileCfg.Save(path)
}
