package httpapi

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Rules

func (s *Server) postRule(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRule(w, r)
	if !ok {
		return
	}
	rule, err := s.regSvc.CreateRule(r.Context(), req.toInput())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toRuleResponse(rule))
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.regSvc.ListRules(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	items := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		items = append(items, toRuleResponse(rule))
	}
	toJSON(w, http.StatusOK, items)
}

func (s *Server) patchRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	req, ok := decodeRule(w, r)
	if !ok {
		return
	}
	rule, err := s.regSvc.UpdateRule(r.Context(), id, req.toInput())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toRuleResponse(rule))
}

func (s *Server) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := s.regSvc.DeleteRule(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRule(w http.ResponseWriter, r *http.Request) (ruleRequest, bool) {
	if !requireJSON(w, r) {
		return ruleRequest{}, false
	}
	var req ruleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return ruleRequest{}, false
	}
	return req, true
}

// Customers

func (s *Server) postCustomer(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req customerRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	c, err := s.regSvc.CreateCustomer(r.Context(), customerInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toCustomerResponse(c))
}

// listCustomers returns the registry; ?custom_id= narrows to a single
// record, which income entry forms use to prefill.
func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	if customID := r.URL.Query().Get("custom_id"); customID != "" {
		c, err := s.regSvc.FindCustomer(r.Context(), customID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		toJSON(w, http.StatusOK, []customerResponse{toCustomerResponse(c)})
		return
	}
	customers, err := s.regSvc.ListCustomers(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	items := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerResponse(c))
	}
	toJSON(w, http.StatusOK, items)
}
