package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"schoolbooks/internal/books"
	"schoolbooks/internal/query"
)

// postEntry enriches and persists one entry. For the Income book a
// custom_id in the payload prefills name/class/gender from the registry.
func (s *Server) postEntry(w http.ResponseWriter, r *http.Request) {
	req, _ := r.Context().Value(ctxKeyEntryInput).(entryRequest)
	book := bookFrom(r)
	if book == books.BookIncome && req.CustomID != "" {
		c, err := s.regSvc.FindCustomer(r.Context(), req.CustomID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if req.Name == "" {
			req.Name = c.Name
		}
		if req.AccountClass == "" {
			req.AccountClass = c.AccountClass
		}
		if req.Gender == "" {
			req.Gender = c.Gender
		}
	}
	e, err := s.entrySvc.Create(r.Context(), book, req.toInput())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toEntryResponse(e))
}

// listEntries returns a book's entries, optionally narrowed by query params.
// Every param is a field filter; unknown fields simply match nothing.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entrySvc.List(r.Context(), bookFrom(r), paramsFrom(r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	items := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toEntryResponse(e))
	}
	toJSON(w, http.StatusOK, listEntriesResponse{Items: items, Count: len(items)})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	e, err := s.store.GetEntry(r.Context(), bookFrom(r), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(e))
}

func (s *Server) patchEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	req, _ := r.Context().Value(ctxKeyEntryInput).(entryRequest)
	e, err := s.entrySvc.Update(r.Context(), bookFrom(r), id, req.toInput())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := s.entrySvc.Delete(r.Context(), bookFrom(r), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// paramsFrom turns single-valued query params into a field filter, dropping
// the reserved keys that steer the endpoint rather than the match.
func paramsFrom(r *http.Request, reserved ...string) query.Params {
	skip := map[string]bool{}
	for _, k := range reserved {
		skip[k] = true
	}
	params := query.Params{}
	for key, vals := range r.URL.Query() {
		if skip[key] || len(vals) == 0 || vals[0] == "" {
			continue
		}
		params[key] = vals[0]
	}
	return params
}
