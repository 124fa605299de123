package httpapi

import (
	"net/http"

	"schoolbooks/internal/books"
)

// GET /v1/books/{book}/options
// Serves the curated dropdown values for a book's capture form: account
// heads, classes, payment methods, transfer tags and fee types where they
// apply.
func (s *Server) bookOptions(w http.ResponseWriter, r *http.Request) {
	book := bookFrom(r)
	out := struct {
		Heads    []books.OptionDef   `json:"heads"`
		Classes  []books.OptionDef   `json:"classes,omitempty"`
		Methods  []books.Method      `json:"methods"`
		Transfer []books.TransferTag `json:"transfer_tags,omitempty"`
		FeeTypes []books.FeeType     `json:"fee_types,omitempty"`
	}{
		Heads:   books.HeadsFor(book),
		Methods: books.Methods(),
	}
	if book == books.BookIncome {
		out.Classes = books.Classes()
		out.FeeTypes = books.FeeTypes()
	}
	if book == books.BookBank || book == books.BookCash {
		out.Transfer = []books.TransferTag{books.TagOfficeExp, books.TagSalaryExp, books.TagKitchenExp}
	}
	toJSON(w, http.StatusOK, out)
}
