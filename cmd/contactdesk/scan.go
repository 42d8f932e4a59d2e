package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/contactdesk/internal/config"
	"github.com/muurk/contactdesk/internal/contactapi"
	"github.com/muurk/contactdesk/internal/discovery"
	"github.com/muurk/contactdesk/internal/logging"
	"github.com/muurk/contactdesk/internal/ui"
)

var (
	scanTimeout time.Duration
	scanNoSave  bool
)

// scanCmd discovers contacts APIs on the local network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for contacts APIs on the network",
	Long: `Scan for contacts APIs using mDNS/DNS-SD discovery.

Each API found is checked with a request to its contacts collection. Those
that answer are remembered in the config file under their instance name,
so they can be selected later with --endpoint.`,
	Example: `  # Scan with the configured timeout
  contactdesk scan

  # Quick 2-second scan
  contactdesk scan --scan-timeout 2s

  # Use a discovered API
  contactdesk --endpoint "Office contacts"`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", 0, "How long to listen (default from config)")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "Do not remember discovered endpoints")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner()
	scanner.Service = cfg.Discovery.Service
	scanner.Timeout = cfg.Discovery.Timeout()
	if scanTimeout > 0 {
		scanner.Timeout = scanTimeout
	}

	printer.PrintHeader("Scanning for contacts APIs", fmt.Sprintf("%s, %s", scanner.Service, scanner.Timeout))

	endpoints, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(endpoints) == 0 {
		printer.PrintError("No contacts APIs found", nil, fmt.Sprintf(
			"  • Check the API advertises %s over mDNS\n  • Try a longer --scan-timeout\n  • Use --api-url to connect directly",
			scanner.Service))
		return nil
	}

	statuses := pingEndpoints(cmd.Context(), endpoints)

	rows := make([][]string, len(endpoints))
	found := make(map[string]config.Endpoint, len(endpoints))
	for i, ep := range endpoints {
		status := "ok"
		if statuses[i] != nil {
			status = contactapi.ShortMessage(statuses[i])
		} else {
			found[ep.Instance] = endpointFromDiscovery(ep)
		}
		rows[i] = []string{ep.Instance, ep.BaseURL(), ep.Path, ep.Hostname, strconv.Itoa(len(ep.Metadata)), status}
	}
	printer.Println(ui.RenderTable([]string{"Instance", "Base URL", "Path", "Host", "TXT", "Status"}, rows, printer.Width()))

	if scanNoSave || len(found) == 0 {
		return nil
	}
	if err := rememberEndpoints(found, false); err != nil {
		return fmt.Errorf("failed to remember endpoints: %w", err)
	}
	printer.Println(ui.TroubleshootingItemStyle.Render(
		fmt.Sprintf("Remembered %d endpoint(s). Use --endpoint <instance> to connect.", len(found))))
	return nil
}

// pingEndpoints checks every endpoint's collection in parallel. The result
// holds one error per endpoint, nil when it answered.
func pingEndpoints(ctx context.Context, endpoints []*discovery.Endpoint) []error {
	results := make([]error, len(endpoints))
	g, ctx := errgroup.WithContext(ctx)
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			client := contactapi.NewClient(ep.BaseURL())
			client.SetPath(ep.Path)
			client.SetTimeout(cfg.API.Timeout())
			results[i] = client.Ping(ctx)
			if results[i] != nil {
				logging.Debug("Discovered endpoint not answering",
					zap.String("instance", ep.Instance), zap.Error(results[i]))
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
