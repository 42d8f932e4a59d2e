// Package roster holds the contact table's in-memory state: the ordered list of
// contacts, each row's viewing/editing mode, and the per-row edit buffer.
//
// # Row modes
//
// A row starts in viewing mode. BeginEdit copies its committed values into the
// edit buffer and switches it to editing; SetField then changes only the
// buffer. CommitEdit copies the buffer back into the list and returns a Commit.
// The list now shows the new values before the API has confirmed them.
//
//	commit, err := r.CommitEdit(id)
//	if err != nil {
//	    return err
//	}
//	if err := client.Update(ctx, commit.Applied); err != nil {
//	    r.Revert(commit) // row shows its pre-edit values again
//	}
//
// Revert is per row. It is skipped when the row was removed or committed again
// in the meantime, so a late failure cannot undo a newer save.
package roster
