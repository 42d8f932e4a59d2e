package roster

import (
	"errors"
	"fmt"

	"github.com/muurk/contactdesk/internal/contact"
)

var (
	// ErrNotFound is returned when no row carries the requested id.
	ErrNotFound = errors.New("contact not found")

	// ErrNotEditing is returned for buffer operations on a row in viewing mode.
	ErrNotEditing = errors.New("contact is not being edited")

	// ErrAlreadyEditing is returned by BeginEdit for a row already editing.
	ErrAlreadyEditing = errors.New("contact is already being edited")

	// ErrDuplicateID is returned by Append when the id is already present.
	ErrDuplicateID = errors.New("contact id already present")
)

// Row is one contact in the table together with its edit mode.
type Row struct {
	contact.Contact
	Editing bool

	// revision counts commits applied to the row; Revert uses it to drop
	// stale rollbacks.
	revision uint64
}

// Commit describes an optimistic edit applied by CommitEdit.
type Commit struct {
	ID       string
	Previous contact.Contact // committed values before the edit
	Applied  contact.Contact // values now shown, to be sent to the API
	Revision uint64
}

// Changed reports whether the commit altered any field.
func (c Commit) Changed() bool {
	return c.Previous != c.Applied
}

// Roster is the in-memory contact list shown by the table plus the edit
// buffer for rows in editing mode.
//
// The edit buffer is keyed by contact id. An entry is meaningful only while
// its row is editing; afterwards it is left as is and overwritten on the next
// BeginEdit.
//
// Roster is not safe for concurrent use. The table mutates it from its update
// loop only.
type Roster struct {
	rows   []Row
	drafts map[string]contact.Contact
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{drafts: make(map[string]contact.Contact)}
}

// Load replaces the list with contacts, in order, all in viewing mode.
// Any edit buffer is discarded.
func (r *Roster) Load(contacts []contact.Contact) {
	rows := make([]Row, len(contacts))
	for i, c := range contacts {
		rows[i] = Row{Contact: c}
	}
	r.rows = rows
	r.drafts = make(map[string]contact.Contact)
}

// Len returns the number of rows.
func (r *Roster) Len() int {
	return len(r.rows)
}

// Rows returns a copy of all rows in display order.
func (r *Roster) Rows() []Row {
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// IDs returns the contact ids in display order.
func (r *Roster) IDs() []string {
	ids := make([]string, len(r.rows))
	for i, row := range r.rows {
		ids[i] = row.ID
	}
	return ids
}

// At returns the row at index i.
func (r *Roster) At(i int) (Row, bool) {
	if i < 0 || i >= len(r.rows) {
		return Row{}, false
	}
	return r.rows[i], true
}

// Find returns the row with the given id and its index.
func (r *Roster) Find(id string) (Row, int, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return Row{}, -1, false
	}
	return r.rows[i], i, true
}

// Has reports whether a row with the given id exists.
func (r *Roster) Has(id string) bool {
	return r.indexOf(id) >= 0
}

// Editing returns the ids of rows currently in editing mode.
func (r *Roster) Editing() []string {
	var ids []string
	for _, row := range r.rows {
		if row.Editing {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

// Append adds c at the end of the list in viewing mode.
func (r *Roster) Append(c contact.Contact) error {
	if r.Has(c.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	r.rows = append(r.rows, Row{Contact: c})
	return nil
}

// Remove deletes the row with the given id. It reports whether a row was
// removed.
func (r *Roster) Remove(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.rows = append(r.rows[:i:i], r.rows[i+1:]...)
	delete(r.drafts, id)
	return true
}

func (r *Roster) indexOf(id string) int {
	for i := range r.rows {
		if r.rows[i].ID == id {
			return i
		}
	}
	return -1
}
