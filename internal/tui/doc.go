// Package tui implements the interactive contact table.
//
// Model follows the Bubble Tea Model-Update-View pattern. It fetches the
// contact list when started and shows it as a table. Rows are edited in
// place, and new contacts are entered in a modal form (FormModel).
//
// API calls run as commands off the update loop. Each one is registered with
// an apicall.Tracker before its command is returned, so the loading overlay
// appears as soon as the key is handled and stays up until the last call
// settles. Results come back as messages:
//
//   - contactsLoadedMsg replaces the list
//   - contactAddedMsg appends the new row and closes the form, or keeps the
//     form open with the error
//   - contactDeletedMsg removes the row
//   - contactSavedMsg reverts the row's optimistic edit on failure
//
// # Usage
//
//	client := contactapi.NewClient(baseURL)
//	model := tui.NewModel(client, tui.Options{Endpoint: client.CollectionURL()})
//	program := tea.NewProgram(model, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
//
// # Keys
//
// Browsing: ↑/↓ move, a adds, e or enter edits, d deletes, r reloads,
// ? toggles help, q quits. Editing a row: tab and shift+tab move between
// fields, enter saves, esc cancels. The age field accepts digits only.
package tui
