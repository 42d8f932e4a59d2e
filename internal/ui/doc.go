// Package ui renders styled output for the non-interactive contactdesk
// commands: banners, contact tables, success and failure boxes, a batch
// progress display and a typed confirmation prompt.
//
// Output is sized to the terminal (x/term) and clamped between
// MinTerminalWidth and MaxContentWidth. When stdout is not a terminal the
// minimum width is used.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintContacts(contacts)
//	p.PrintError("Delete failed", err, contactapi.Hint(err))
//
// Logging is controlled separately (CONTACTDESK_LOG_LEVEL); when it is unset
// zap stays silent and only this package writes to the terminal.
package ui
