package roster

import (
	"fmt"

	"github.com/muurk/contactdesk/internal/contact"
)

// BeginEdit switches the row to editing and snapshots its committed values
// into the edit buffer.
func (r *Roster) BeginEdit(id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if r.rows[i].Editing {
		return fmt.Errorf("%w: %s", ErrAlreadyEditing, id)
	}

	r.rows[i].Editing = true
	r.drafts[id] = r.rows[i].Contact
	return nil
}

// Draft returns the edit buffer entry for id. The entry may be stale if the
// row is no longer editing.
func (r *Roster) Draft(id string) (contact.Contact, bool) {
	c, ok := r.drafts[id]
	return c, ok
}

// SetField writes raw into the edit buffer for id. The committed row is not
// touched.
func (r *Roster) SetField(id string, field contact.Field, raw string) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !r.rows[i].Editing {
		return fmt.Errorf("%w: %s", ErrNotEditing, id)
	}

	draft := r.drafts[id]
	if err := field.Set(&draft, raw); err != nil {
		return err
	}
	r.drafts[id] = draft
	return nil
}

// CommitEdit switches the row back to viewing and copies the edit buffer into
// the committed list. The returned Commit carries what is needed to send the
// update and, should it fail, to Revert it.
func (r *Roster) CommitEdit(id string) (Commit, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Commit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	row := &r.rows[i]
	if !row.Editing {
		return Commit{}, fmt.Errorf("%w: %s", ErrNotEditing, id)
	}

	applied := r.drafts[id]
	applied.ID = id

	commit := Commit{
		ID:       id,
		Previous: row.Contact,
		Applied:  applied,
	}

	row.Contact = applied
	row.Editing = false
	row.revision++
	commit.Revision = row.revision

	return commit, nil
}

// CancelEdit switches the row back to viewing without committing the buffer.
func (r *Roster) CancelEdit(id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !r.rows[i].Editing {
		return fmt.Errorf("%w: %s", ErrNotEditing, id)
	}
	r.rows[i].Editing = false
	return nil
}

// Toggle flips the row between viewing and editing. Leaving editing commits
// the buffer; committed reports whether that happened.
func (r *Roster) Toggle(id string) (commit Commit, committed bool, err error) {
	row, _, ok := r.Find(id)
	if !ok {
		return Commit{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !row.Editing {
		return Commit{}, false, r.BeginEdit(id)
	}
	commit, err = r.CommitEdit(id)
	return commit, err == nil, err
}

// Revert undoes commit after the API rejected it, restoring the row's values
// from before the edit. The row stays in viewing mode.
//
// Nothing happens if the row has since been removed or committed again; in
// that case Revert reports false.
func (r *Roster) Revert(commit Commit) bool {
	i := r.indexOf(commit.ID)
	if i < 0 {
		return false
	}
	row := &r.rows[i]
	if row.revision != commit.Revision {
		return false
	}
	row.Contact = commit.Previous
	return true
}

// ResetDraft replaces the edit buffer of an editing row with the row's
// committed values. It reports false when the row is missing or not being
// edited.
func (r *Roster) ResetDraft(id string) bool {
	i := r.indexOf(id)
	if i < 0 || !r.rows[i].Editing {
		return false
	}
	r.drafts[id] = r.rows[i].Contact
	return true
}
