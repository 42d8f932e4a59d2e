// Package logging provides structured logging for contactdesk.
//
// This package wraps a global zap logger with convenience functions. Logging is
// silent by default so that command output and the interactive table are not
// disturbed; it is switched on with a level from a flag, the config file or the
// CONTACTDESK_LOG_LEVEL environment variable.
//
// # Log Levels
//
//   - Debug: every API request and every tracked call as it settles
//   - Info: normal operations (config loaded, endpoint discovered)
//   - Warn: failed API requests
//   - Error: failures that abort a command
//
// # Output
//
// The interactive table owns the terminal, so logs are written to the file named
// by --log-file or CONTACTDESK_LOG_FILE. Without a file they go to stderr.
//
//	if err := logging.Initialize(logging.Options{Level: "debug", File: "/tmp/contactdesk.log"}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogAPIRequest("GET", url, 200, elapsed, nil)
//	logging.LogCall("fetch contacts", elapsed, 0, err)
package logging
