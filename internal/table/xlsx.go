package table

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// readXLSX loads the first sheet of a workbook. Cells come back as the
// displayed strings; rows shorter than the header are padded by cell().
func readXLSX(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}

	return &Document{Name: sheet, Header: rows[0], Rows: rows[1:]}, nil
}

// WriteWorkbook saves one or more documents as sheets of a single workbook,
// in order, atomically. Each document's Name becomes its sheet name.
func WriteWorkbook(path string, docs ...*Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("no sheets to write to %s", path)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	for i, doc := range docs {
		name := doc.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := wb.SetSheetName(wb.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else {
			if _, err := wb.NewSheet(name); err != nil {
				return fmt.Errorf("failed to add sheet %q: %w", name, err)
			}
		}
		if err := writeSheet(wb, name, doc); err != nil {
			return err
		}
	}

	return writeAtomic(path, func(f *os.File) error {
		if err := wb.Write(f); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}

func writeSheet(wb *excelize.File, sheet string, doc *Document) error {
	if err := setRow(wb, sheet, 1, doc.Header); err != nil {
		return err
	}
	for i, rec := range doc.Rows {
		if err := setRow(wb, sheet, i+2, rec); err != nil {
			return err
		}
	}
	return nil
}

func setRow(wb *excelize.File, sheet string, row int, rec []string) error {
	anchor, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("bad row coordinate %d: %w", row, err)
	}
	vals := make([]interface{}, len(rec))
	for i, v := range rec {
		vals[i] = v
	}
	if err := wb.SetSheetRow(sheet, anchor, &vals); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
