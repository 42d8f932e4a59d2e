package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/contactdesk/internal/contact"
)

var ignoreRevision = cmpopts.IgnoreUnexported(Row{})

func sample() []contact.Contact {
	return []contact.Contact{
		{ID: "1", Name: "Ann", Phone: "555", Age: 30, Email: "a@x.com"},
		{ID: "2", Name: "Ben", Phone: "556", Age: 41, Email: "b@x.com"},
		{ID: "3", Name: "Cat", Phone: "557", Age: 22, Email: "c@x.com"},
	}
}

func loaded(t *testing.T) *Roster {
	t.Helper()
	r := New()
	r.Load(sample())
	return r
}

func TestLoad_PreservesOrderAndViewing(t *testing.T) {
	r := loaded(t)

	assert.Equal(t, []string{"1", "2", "3"}, r.IDs())
	for _, row := range r.Rows() {
		assert.False(t, row.Editing, row.ID)
	}
	assert.Empty(t, r.Editing())
}

func TestLoad_ReplacesPreviousState(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("1"))

	r.Load(sample()[1:])

	assert.Equal(t, []string{"2", "3"}, r.IDs())
	_, ok := r.Draft("1")
	assert.False(t, ok)
}

func TestAppend(t *testing.T) {
	r := loaded(t)
	c := contact.Contact{ID: "4", Name: "Dan", Phone: "558", Age: 50, Email: "d@x.com"}

	require.NoError(t, r.Append(c))
	assert.Equal(t, []string{"1", "2", "3", "4"}, r.IDs())

	last, ok := r.At(3)
	require.True(t, ok)
	assert.Equal(t, c, last.Contact)
	assert.False(t, last.Editing)

	assert.ErrorIs(t, r.Append(c), ErrDuplicateID)
	assert.Equal(t, 4, r.Len())
}

func TestRemove_LeavesOthersUnchanged(t *testing.T) {
	r := loaded(t)
	before := r.Rows()

	assert.True(t, r.Remove("2"))
	assert.False(t, r.Remove("2"))

	want := []Row{before[0], before[2]}
	if diff := cmp.Diff(want, r.Rows(), ignoreRevision); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove_DoesNotAliasRowsSnapshot(t *testing.T) {
	r := loaded(t)
	snapshot := r.Rows()

	r.Remove("1")

	assert.Equal(t, "1", snapshot[0].ID)
	assert.Equal(t, []string{"2", "3"}, r.IDs())
}

func TestBeginEdit_SnapshotsIntoBuffer(t *testing.T) {
	r := loaded(t)

	require.NoError(t, r.BeginEdit("2"))

	draft, ok := r.Draft("2")
	require.True(t, ok)
	assert.Equal(t, sample()[1], draft)
	assert.Equal(t, []string{"2"}, r.Editing())

	assert.ErrorIs(t, r.BeginEdit("2"), ErrAlreadyEditing)
	assert.ErrorIs(t, r.BeginEdit("nope"), ErrNotFound)
}

func TestSetField_OnlyTouchesBuffer(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("1"))

	require.NoError(t, r.SetField("1", contact.FieldName, "Anne"))
	require.NoError(t, r.SetField("1", contact.FieldAge, "31"))

	row, _, _ := r.Find("1")
	assert.Equal(t, "Ann", row.Name)
	assert.Equal(t, 30, row.Age)

	draft, _ := r.Draft("1")
	assert.Equal(t, "Anne", draft.Name)
	assert.Equal(t, 31, draft.Age)
}

func TestSetField_Errors(t *testing.T) {
	r := loaded(t)

	assert.ErrorIs(t, r.SetField("1", contact.FieldName, "x"), ErrNotEditing)
	assert.ErrorIs(t, r.SetField("9", contact.FieldName, "x"), ErrNotFound)

	require.NoError(t, r.BeginEdit("1"))
	assert.ErrorIs(t, r.SetField("1", contact.FieldAge, "old"), contact.ErrInvalidAge)

	draft, _ := r.Draft("1")
	assert.Equal(t, 30, draft.Age)
}

// Ann is edited to age 31 and saved; the buffer keeps the stale value.
func TestToggle_EditSaveScenario(t *testing.T) {
	r := New()
	r.Load([]contact.Contact{{ID: "1", Name: "Ann", Phone: "555", Age: 30, Email: "a@x.com"}})

	_, committed, err := r.Toggle("1")
	require.NoError(t, err)
	assert.False(t, committed)

	require.NoError(t, r.SetField("1", contact.FieldAge, "31"))

	commit, committed, err := r.Toggle("1")
	require.NoError(t, err)
	require.True(t, committed)
	assert.True(t, commit.Changed())
	assert.Equal(t, 30, commit.Previous.Age)
	assert.Equal(t, 31, commit.Applied.Age)

	require.Equal(t, 1, r.Len())
	row, _ := r.At(0)
	assert.False(t, row.Editing)
	assert.Equal(t, 31, row.Age)

	draft, ok := r.Draft("1")
	require.True(t, ok)
	assert.Equal(t, 31, draft.Age)
}

func TestCommitEdit_NoOtherRowAffected(t *testing.T) {
	r := loaded(t)
	before := r.Rows()

	require.NoError(t, r.BeginEdit("2"))
	require.NoError(t, r.SetField("2", contact.FieldEmail, "ben@y.com"))
	_, err := r.CommitEdit("2")
	require.NoError(t, err)

	after := r.Rows()
	if diff := cmp.Diff(before[0], after[0], ignoreRevision); diff != "" {
		t.Errorf("row 1 changed:\n%s", diff)
	}
	if diff := cmp.Diff(before[2], after[2], ignoreRevision); diff != "" {
		t.Errorf("row 3 changed:\n%s", diff)
	}
	assert.Equal(t, "ben@y.com", after[1].Email)
}

func TestCommitEdit_NotEditing(t *testing.T) {
	r := loaded(t)
	_, err := r.CommitEdit("1")
	assert.ErrorIs(t, err, ErrNotEditing)
}

func TestRevert_RestoresPreEditValues(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("1"))
	require.NoError(t, r.SetField("1", contact.FieldName, "Zed"))
	commit, err := r.CommitEdit("1")
	require.NoError(t, err)

	assert.True(t, r.Revert(commit))

	row, _, _ := r.Find("1")
	assert.Equal(t, sample()[0], row.Contact)
	assert.False(t, row.Editing, "toggle is not rolled back")
}

func TestRevert_SkipsStaleCommit(t *testing.T) {
	r := loaded(t)

	require.NoError(t, r.BeginEdit("1"))
	require.NoError(t, r.SetField("1", contact.FieldName, "First"))
	first, err := r.CommitEdit("1")
	require.NoError(t, err)

	require.NoError(t, r.BeginEdit("1"))
	require.NoError(t, r.SetField("1", contact.FieldName, "Second"))
	_, err = r.CommitEdit("1")
	require.NoError(t, err)

	// The first update failing late must not undo the second save.
	assert.False(t, r.Revert(first))
	row, _, _ := r.Find("1")
	assert.Equal(t, "Second", row.Name)
}

func TestRevert_WhileReEditing(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("1"))
	require.NoError(t, r.SetField("1", contact.FieldName, "Zed"))
	commit, err := r.CommitEdit("1")
	require.NoError(t, err)

	// editing again before the update settles snapshots the rejected values
	require.NoError(t, r.BeginEdit("1"))
	require.True(t, r.Revert(commit))
	draft, _ := r.Draft("1")
	assert.Equal(t, "Zed", draft.Name)

	assert.True(t, r.ResetDraft("1"))
	draft, _ = r.Draft("1")
	assert.Equal(t, sample()[0], draft)
}

func TestResetDraft_NotEditing(t *testing.T) {
	r := loaded(t)
	assert.False(t, r.ResetDraft("1"))
	assert.False(t, r.ResetDraft("missing"))
	_, ok := r.Draft("1")
	assert.False(t, ok)
}

func TestRevert_RemovedRow(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("3"))
	commit, err := r.CommitEdit("3")
	require.NoError(t, err)

	r.Remove("3")
	assert.False(t, r.Revert(commit))
	assert.Equal(t, []string{"1", "2"}, r.IDs())
}

func TestCancelEdit(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("1"))
	require.NoError(t, r.SetField("1", contact.FieldPhone, "000"))

	require.NoError(t, r.CancelEdit("1"))

	row, _, _ := r.Find("1")
	assert.False(t, row.Editing)
	assert.Equal(t, "555", row.Phone)
	assert.ErrorIs(t, r.CancelEdit("1"), ErrNotEditing)
}

func TestBeginEdit_OverwritesStaleBuffer(t *testing.T) {
	r := loaded(t)
	require.NoError(t, r.BeginEdit("1"))
	require.NoError(t, r.SetField("1", contact.FieldName, "Abandoned"))
	require.NoError(t, r.CancelEdit("1"))

	require.NoError(t, r.BeginEdit("1"))
	draft, _ := r.Draft("1")
	assert.Equal(t, "Ann", draft.Name)
}
