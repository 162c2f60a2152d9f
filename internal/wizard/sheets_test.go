package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthdata-wizard-api/internal/domain"
)

func TestSheetSet_Initial(t *testing.T) {
	set := NewSheetSet()

	sheets := set.Sheets()
	require.Len(t, sheets, 1)
	assert.Equal(t, domain.DefaultSheetID, sheets[0].ID)
	assert.Equal(t, domain.DefaultSheetName, sheets[0].Name)
	assert.True(t, sheets[0].Locked)
	assert.Empty(t, sheets[0].FieldNames)
}

func TestSheetSet_AddSheet(t *testing.T) {
	set := NewSheetSet()

	first := set.AddSheet()
	second := set.AddSheet()

	assert.True(t, strings.HasPrefix(first.ID, "sheet-"))
	assert.Equal(t, "Sheet 2", first.Name)
	assert.Equal(t, "Sheet 3", second.Name)
	assert.False(t, first.Locked)
	assert.Equal(t, 3, set.Len())
}

func TestSheetSet_LockedSheetIsImmutable(t *testing.T) {
	set := NewSheetSet()
	set.AddSheet()
	before := set.Sheets()

	assert.False(t, set.Rename(domain.DefaultSheetID, "Neu"))
	assert.False(t, set.RemoveSheet(domain.DefaultSheetID))
	assert.False(t, set.ToggleField(domain.DefaultSheetID, "alter"))
	assert.False(t, set.SelectAll(domain.DefaultSheetID, []string{"alter"}))
	assert.False(t, set.SelectNone(domain.DefaultSheetID))

	assert.Equal(t, before, set.Sheets())
	assert.Equal(t, 2, set.Len())
}

func TestSheetSet_Membership(t *testing.T) {
	set := NewSheetSet()
	a := set.AddSheet()
	b := set.AddSheet()

	require.True(t, set.ToggleField(a.ID, "alter"))
	require.True(t, set.ToggleField(a.ID, "vorname"))
	require.True(t, set.ToggleField(b.ID, "alter"))

	sa, _ := set.Get(a.ID)
	sb, _ := set.Get(b.ID)
	assert.Equal(t, []string{"alter", "vorname"}, sa.FieldNames)
	assert.Equal(t, []string{"alter"}, sb.FieldNames, "membership is not exclusive")

	require.True(t, set.ToggleField(a.ID, "alter"))
	sa, _ = set.Get(a.ID)
	assert.Equal(t, []string{"vorname"}, sa.FieldNames)

	require.True(t, set.SelectAll(b.ID, []string{"x", "y"}))
	sb, _ = set.Get(b.ID)
	assert.Equal(t, []string{"x", "y"}, sb.FieldNames)

	require.True(t, set.SelectNone(b.ID))
	sb, _ = set.Get(b.ID)
	assert.Empty(t, sb.FieldNames)
}

func TestSheetSet_RenameAndRemove(t *testing.T) {
	set := NewSheetSet()
	a := set.AddSheet()

	assert.True(t, set.Rename(a.ID, "Personen"))
	sa, _ := set.Get(a.ID)
	assert.Equal(t, "Personen", sa.Name)

	assert.True(t, set.RemoveSheet(a.ID))
	assert.Equal(t, 1, set.Len())
	assert.False(t, set.RemoveSheet(a.ID))
	assert.False(t, set.Rename("unknown", "x"))
}

func TestSheetSet_SheetsIsDeepCopy(t *testing.T) {
	set := NewSheetSet()
	a := set.AddSheet()
	set.ToggleField(a.ID, "alter")

	sheets := set.Sheets()
	sheets[1].FieldNames[0] = "changed"

	sa, _ := set.Get(a.ID)
	assert.Equal(t, []string{"alter"}, sa.FieldNames)
}
