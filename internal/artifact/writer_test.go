package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepmerge/internal/table"
	"stepmerge/internal/types"
)

func fixedClock() time.Time {
	return time.Date(2026, time.August, 24, 14, 5, 0, 0, time.UTC)
}

func testWriter(t *testing.T, alias bool) *Writer {
	t.Helper()
	return &Writer{
		OutDir:      t.TempDir(),
		SOP:         "Tech",
		LatestAlias: alias,
		Now:         fixedClock,
	}
}

func primaryDoc() *table.Document {
	doc := table.NewDocument("PreMerge", []string{"Code", "Title"})
	doc.Append([]string{"S1", "Open panel"})
	return doc
}

func TestWrite_StampedNames(t *testing.T) {
	w := testWriter(t, false)

	paths, err := w.Write("PreMerge", primaryDoc())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(w.OutDir, "Tech_PreMerge_240826_1405.csv"),
		filepath.Join(w.OutDir, "Tech_PreMerge_240826_1405.xlsx"),
	}, paths)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestWrite_LatestAliases(t *testing.T) {
	w := testWriter(t, true)

	paths, err := w.Write("PreMerge", primaryDoc())
	require.NoError(t, err)

	// Aliases are written but not reported.
	assert.Len(t, paths, 2)
	for _, name := range []string{"Tech_PreMerge_latest.csv", "Tech_PreMerge_latest.xlsx"} {
		_, err := os.Stat(filepath.Join(w.OutDir, name))
		assert.NoError(t, err, name)
	}
}

func TestWrite_AliasTracksLatestRun(t *testing.T) {
	w := testWriter(t, true)

	_, err := w.Write("PreMerge", primaryDoc())
	require.NoError(t, err)

	later := table.NewDocument("PreMerge", []string{"Code", "Title"})
	later.Append([]string{"S1", "Open panel"})
	later.Append([]string{"S2", "Close panel"})
	w.Now = func() time.Time { return fixedClock().Add(time.Minute) }
	_, err = w.Write("PreMerge", later)
	require.NoError(t, err)

	doc, err := table.ReadDocument(filepath.Join(w.OutDir, "Tech_PreMerge_latest.csv"))
	require.NoError(t, err)
	assert.Len(t, doc.Rows, 2, "alias points at the newer run")

	// Both stamped generations remain.
	for _, name := range []string{"Tech_PreMerge_240826_1405.csv", "Tech_PreMerge_240826_1406.csv"} {
		_, err := os.Stat(filepath.Join(w.OutDir, name))
		assert.NoError(t, err, name)
	}
}

func TestWrite_ExtrasGetSiblingCSVAndSheet(t *testing.T) {
	w := testWriter(t, false)
	changes := table.ChangeLogDocument("ChangeLog", []types.ChangeRecord{
		{Code: "S1", Field: "UAP Label", From: "", To: "Go"},
	})

	paths, err := w.Write("mk_tw_in", primaryDoc(), changes)
	require.NoError(t, err)

	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(w.OutDir, "Tech_mk_tw_in_changelog_240826_1405.csv"), paths[1])

	doc, err := table.ReadDocument(paths[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"Code", "Field", "From", "To"}, doc.Header)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, []string{"S1", "UAP Label", "", "Go"}, doc.Rows[0])
}

func TestSuffixFor(t *testing.T) {
	assert.Equal(t, "changelog", suffixFor("ChangeLog"))
	assert.Equal(t, "opm_code_lookup", suffixFor("OPM_Code_Lookup"))
	assert.Equal(t, "map_entries", suffixFor(" Map Entries "))
	assert.Equal(t, "sheet", suffixFor(""))
}
