package httpapi

import (
	"net/http"

	"schoolbooks/internal/fiscal"
	"schoolbooks/internal/report"
)

// dashboard recomputes the consolidated report from a consistent snapshot.
// Nothing is cached: totals are always derived from current entries.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	opts := report.Options{FY: r.URL.Query().Get("fy")}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, ok := fiscal.ParseDate(raw)
		if !ok {
			badRequest(w, "invalid from")
			return
		}
		opts.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, ok := fiscal.ParseDate(raw)
		if !ok {
			badRequest(w, "invalid to")
			return
		}
		opts.To = &t
	}
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toDashboardResponse(report.Aggregate(snap, opts)))
}
