// Package config manages the contactdesk configuration file.
//
// The file is YAML and lives in the platform config directory:
//   - Linux: $XDG_CONFIG_HOME/contactdesk/config.yaml or $HOME/.config/contactdesk/config.yaml
//   - macOS: $HOME/.config/contactdesk/config.yaml
//   - Windows: %LOCALAPPDATA%\contactdesk\config.yaml
//
// Settings are layered: defaults, then the file, then CONTACTDESK_* variables
// (a .env file in the working directory is read first), then command line
// flags. Resolve does all of it:
//
//	cfg, err := config.Resolve(flagConfigPath, config.Overrides{BaseURL: flagAPIURL})
//	if err != nil {
//	    return err
//	}
//	client := contactapi.NewClient(cfg.API.BaseURL)
//
// The file also remembers API endpoints the user has connected to or found
// with "contactdesk scan". Save writes atomically through a temporary file.
package config
