package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"schoolbooks/internal/books"
)

// utf8BOM keeps spreadsheet applications happy with non-ASCII content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV writes a book's entries as CSV in the declared column order.
func ExportCSV(w io.Writer, book books.Book, entries []books.Entry) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(books.Columns(book)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(marshalRow(book, e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV parses a book's CSV file. A header mismatch fails the whole
// import with *HeaderError; bad data rows are skipped and reported.
func ImportCSV(r io.Reader, book books.Book, now time.Time) (ImportResult, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == string(utf8BOM) {
		br.Discard(3)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1 // length checked per row for better diagnostics

	header, err := cr.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read header: %w", err)
	}
	if herr := checkHeader(header, books.Columns(book)); herr != nil {
		return ImportResult{}, herr
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("read rows: %w", err)
		}
		records = append(records, record)
	}
	return collect(book, records, now, 2), nil
}

// ExportCustomersCSV writes the customer registry.
func ExportCustomersCSV(w io.Writer, customers []books.Customer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(books.CustomerColumns()); err != nil {
		return err
	}
	for _, c := range customers {
		stamp := ""
		if !c.EntryDate.IsZero() {
			stamp = c.EntryDate.Format(stampLayout)
		}
		if err := cw.Write([]string{c.CustomID, c.AccountHead, c.AccountClass, c.Gender, c.Name, stamp}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportRulesCSV writes the fee-schedule table.
func ExportRulesCSV(w io.Writer, rules []books.Rule) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(books.RuleColumns()); err != nil {
		return err
	}
	for _, r := range rules {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format(dateLayout)
		}
		row := []string{
			date,
			r.FiscalYear(),
			r.AccountHead,
			r.AccountClass,
			r.RegistrationFee.String(),
			r.ServicesFee.String(),
			r.PromotionFee.String(),
			r.Remark,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
