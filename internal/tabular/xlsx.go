package tabular

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"schoolbooks/internal/books"
)

var sheetNames = map[books.Book]string{
	books.BookBank:    "Bank Book",
	books.BookCash:    "Cash Book",
	books.BookIncome:  "Income Book",
	books.BookOffice:  "Office Book",
	books.BookSalary:  "Salary Book",
	books.BookKitchen: "Kitchen Book",
}

// ExportXLSX writes a book's entries as an XLSX workbook with one sheet.
func ExportXLSX(w io.Writer, book books.Book, entries []books.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetNames[book]
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	cols := books.Columns(book)
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	for rowIdx, e := range entries {
		row := marshalRow(book, e)
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	// Date-ish columns a touch wider than the default.
	if err := f.SetColWidth(sheet, "A", "B", 12); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.Write(w)
}

// ImportXLSX parses a book's XLSX workbook, reading the active sheet. The
// same header and row rules apply as for CSV.
func ImportXLSX(r io.Reader, book books.Book, now time.Time) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return ImportResult{}, &HeaderError{Mismatches: []ColumnMismatch{{Index: 0, Want: books.Columns(book)[0]}}}
	}
	if herr := checkHeader(rows[0], books.Columns(book)); herr != nil {
		return ImportResult{}, herr
	}

	// GetRows trims trailing empty cells; pad rows back to schema width so
	// short rows parse instead of failing the length check.
	cols := books.Columns(book)
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(cols) {
			padded := make([]string, len(cols))
			copy(padded, row)
			row = padded
		}
		records = append(records, row)
	}
	return collect(book, records, now, 2), nil
}
