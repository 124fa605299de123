package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"schoolbooks/internal/tabular"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportBook streams a book as CSV or XLSX in its declared column order.
// Filter params narrow the export the same way they narrow a listing.
func (s *Server) exportBook(w http.ResponseWriter, r *http.Request) {
	book := bookFrom(r)
	entries, err := s.entrySvc.List(r.Context(), book, paramsFrom(r, "format"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-book.csv", book))
		if err := tabular.ExportCSV(w, book, entries); err != nil {
			s.log.Error("export csv", "book", book, "err", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-book.xlsx", book))
		if err := tabular.ExportXLSX(w, book, entries); err != nil {
			s.log.Error("export xlsx", "book", book, "err", err)
		}
	default:
		badRequest(w, "unknown format: "+format)
	}
}

// importBook ingests a CSV or XLSX upload, chosen by Content-Type. A header
// that does not match the book's schema fails the whole import; bad rows are
// skipped and reported. Parsed rows are persisted with fresh ids.
func (s *Server) importBook(w http.ResponseWriter, r *http.Request) {
	book := bookFrom(r)
	now := time.Now().UTC()

	var (
		result tabular.ImportResult
		err    error
	)
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(ct, "spreadsheetml") || strings.Contains(ct, "officedocument") {
		result, err = tabular.ImportXLSX(r.Body, book, now)
	} else {
		result, err = tabular.ImportCSV(r.Body, book, now)
	}
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	for _, e := range result.Entries {
		if _, err := s.store.InsertEntry(r.Context(), e); err != nil {
			writeDomainErr(w, err)
			return
		}
	}
	toJSON(w, http.StatusOK, result)
}

// exportRules streams the fee schedule as CSV.
func (s *Server) exportRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.regSvc.ListRules(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=rules.csv")
	if err := tabular.ExportRulesCSV(w, rules); err != nil {
		s.log.Error("export rules csv", "err", err)
	}
}

// exportCustomers streams the registry as CSV.
func (s *Server) exportCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.regSvc.ListCustomers(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=customers.csv")
	if err := tabular.ExportCustomersCSV(w, customers); err != nil {
		s.log.Error("export customers csv", "err", err)
	}
}
