package table

import "stepmerge/internal/types"

// PreMergeDocument flattens a PreMerge/Final row set into a document with
// the canonical artifact column order.
func PreMergeDocument(name string, rows []types.PreMergeRow) *Document {
	doc := NewDocument(name, types.PreMergeColumns())
	for i := range rows {
		doc.Append(rows[i].Record())
	}
	return doc
}

// ChangeLogDocument flattens a change record list into the secondary
// change-log table (Code, Field, From, To).
func ChangeLogDocument(name string, recs []types.ChangeRecord) *Document {
	doc := NewDocument(name, []string{"Code", "Field", "From", "To"})
	for _, r := range recs {
		doc.Append([]string{r.Code, r.Field, r.From, r.To})
	}
	return doc
}
