// Package tabular reads and writes the books' fixed-column CSV and XLSX
// files. Export always emits columns in the declared order; import rejects
// files whose header row does not match the declared columns verbatim.
package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/fiscal"
)

const dateLayout = "2006-01-02"
const stampLayout = "2006-01-02 15:04:05"

// ColumnMismatch describes one header column that differs from the schema.
type ColumnMismatch struct {
	Index int    `json:"index"`
	Got   string `json:"got"`
	Want  string `json:"want"`
}

// HeaderError fails an import before any row is processed.
type HeaderError struct {
	Mismatches []ColumnMismatch
}

func (e *HeaderError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, fmt.Sprintf("col %d: got %q, want %q", m.Index, m.Got, m.Want))
	}
	return "header mismatch: " + strings.Join(parts, "; ")
}

// RowError records one skipped row and why.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult reports what an import produced. Rows that fail to parse are
// skipped and counted, never fatal.
type ImportResult struct {
	Entries  []books.Entry `json:"-"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []RowError    `json:"errors,omitempty"`
}

// checkHeader compares a header row against the declared columns verbatim,
// reporting every mismatched index.
func checkHeader(got, want []string) *HeaderError {
	n := len(got)
	if len(want) > n {
		n = len(want)
	}
	var mm []ColumnMismatch
	for i := 0; i < n; i++ {
		var g, w string
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if g != w {
			mm = append(mm, ColumnMismatch{Index: i, Got: g, Want: w})
		}
	}
	if len(mm) == 0 {
		return nil
	}
	return &HeaderError{Mismatches: mm}
}

// marshalRow renders one entry in the book's declared column order.
func marshalRow(book books.Book, e books.Entry) []string {
	cols := books.Columns(book)
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = cellValue(col, e)
	}
	return out
}

func cellValue(col string, e books.Entry) string {
	switch col {
	case "Date":
		if e.Date.IsZero() {
			return ""
		}
		return e.Date.Format(dateLayout)
	case "FY":
		return e.FiscalYear()
	case "VR No":
		return e.VoucherNo
	case "Invoice No":
		return e.InvoiceNo
	case "A/C Head":
		return e.AccountHead
	case "A/C Name":
		return e.AccountClass
	case "Description":
		return e.Description
	case "Method":
		return string(e.Method)
	case "Debit":
		return amountCell(e.Debit)
	case "Credit":
		return amountCell(e.Credit)
	case "Transfer":
		if e.Transfer == books.TagNone || e.Transfer == books.TagUnrecognized {
			return ""
		}
		return string(e.Transfer)
	case "Name":
		return e.Name
	case "Gender":
		return e.Gender
	case "Fee Type":
		return string(e.FeeType)
	case "Auto Fee":
		return amountCell(e.AutoFee)
	case "Entry Date":
		if e.EntryDate.IsZero() {
			return ""
		}
		return e.EntryDate.Format(stampLayout)
	}
	return ""
}

func amountCell(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// parseRow builds an entry from one data row. The FY and Entry Date columns
// are ignored: FY derives from the date and the import stamps its own
// timestamp.
func parseRow(book books.Book, record []string, now time.Time) (books.Entry, error) {
	cols := books.Columns(book)
	if len(record) != len(cols) {
		return books.Entry{}, fmt.Errorf("expected %d columns, got %d", len(cols), len(record))
	}
	e := books.Entry{Book: book, EntryDate: now}
	for i, col := range cols {
		v := strings.TrimSpace(record[i])
		switch col {
		case "Date":
			d, ok := fiscal.ParseDate(v)
			if !ok {
				return books.Entry{}, fmt.Errorf("unparseable date %q", v)
			}
			e.Date = d
		case "VR No":
			e.VoucherNo = v
		case "Invoice No":
			e.InvoiceNo = v
		case "A/C Head":
			e.AccountHead = v
		case "A/C Name":
			e.AccountClass = v
		case "Description":
			e.Description = v
		case "Method":
			e.Method = books.ParseMethod(v)
		case "Debit":
			d, err := parseAmount(v)
			if err != nil {
				return books.Entry{}, fmt.Errorf("debit: %w", err)
			}
			e.Debit = d
		case "Credit":
			d, err := parseAmount(v)
			if err != nil {
				return books.Entry{}, fmt.Errorf("credit: %w", err)
			}
			e.Credit = d
		case "Transfer":
			e.Transfer = books.ParseTransferTag(v)
		case "Name":
			e.Name = v
		case "Gender":
			e.Gender = v
		case "Fee Type":
			e.FeeType = books.ParseFeeType(v)
		case "Auto Fee":
			d, err := parseAmount(v)
			if err != nil {
				return books.Entry{}, fmt.Errorf("auto fee: %w", err)
			}
			e.AutoFee = d
		}
	}
	return e, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// collect folds parsed rows into an ImportResult, skipping bad rows.
// rowOffset is the 1-based file row of the first data row, for error
// reporting (2 for CSV/XLSX with a header in row 1).
func collect(book books.Book, records [][]string, now time.Time, rowOffset int) ImportResult {
	var res ImportResult
	for i, record := range records {
		e, err := parseRow(book, record, now)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowOffset + i, Reason: err.Error()})
			continue
		}
		res.Entries = append(res.Entries, e)
		res.Imported++
	}
	return res
}
