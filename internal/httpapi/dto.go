package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/report"
	"schoolbooks/internal/service/entry"
	"schoolbooks/internal/service/registry"
)

// entryRequest is one entry form submission. Amounts accept JSON numbers or
// strings; dates arrive as text in any accepted encoding.
type entryRequest struct {
	Date         string          `json:"date"`
	AccountHead  string          `json:"account_head"`
	AccountClass string          `json:"account_class,omitempty"`
	Description  string          `json:"description,omitempty"`
	Method       string          `json:"method,omitempty"`
	Debit        decimal.Decimal `json:"debit,omitempty"`
	Credit       decimal.Decimal `json:"credit,omitempty"`
	Transfer     string          `json:"transfer,omitempty"`

	// Income book only.
	Name    string `json:"name,omitempty"`
	Gender  string `json:"gender,omitempty"`
	FeeType string `json:"fee_type,omitempty"`
	// CustomID optionally prefills name/class/gender from the registry.
	CustomID string `json:"custom_id,omitempty"`
}

func (req entryRequest) toInput() entry.Input {
	return entry.Input{
		Date:         req.Date,
		AccountHead:  req.AccountHead,
		AccountClass: req.AccountClass,
		Description:  req.Description,
		Method:       req.Method,
		Debit:        req.Debit,
		Credit:       req.Credit,
		Transfer:     req.Transfer,
		Name:         req.Name,
		Gender:       req.Gender,
		FeeType:      req.FeeType,
	}
}

type entryResponse struct {
	ID           uuid.UUID `json:"id"`
	Book         string    `json:"book"`
	Date         string    `json:"date"`
	FY           string    `json:"fy"`
	VoucherNo    string    `json:"voucher_no"`
	AccountHead  string    `json:"account_head"`
	AccountClass string    `json:"account_class,omitempty"`
	Description  string    `json:"description,omitempty"`
	Method       string    `json:"method"`
	Debit        string    `json:"debit"`
	Credit       string    `json:"credit"`
	Transfer     string    `json:"transfer,omitempty"`
	InvoiceNo    string    `json:"invoice_no,omitempty"`
	Name         string    `json:"name,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	FeeType      string    `json:"fee_type,omitempty"`
	AutoFee      string    `json:"auto_fee,omitempty"`
	EntryDate    time.Time `json:"entry_date"`
}

func toEntryResponse(e books.Entry) entryResponse {
	resp := entryResponse{
		ID:           e.ID,
		Book:         string(e.Book),
		Date:         e.Date.Format("2006-01-02"),
		FY:           e.FiscalYear(),
		VoucherNo:    e.VoucherNo,
		AccountHead:  e.AccountHead,
		AccountClass: e.AccountClass,
		Description:  e.Description,
		Method:       string(e.EffectiveMethod()),
		Debit:        e.Debit.String(),
		Credit:       e.Credit.String(),
		InvoiceNo:    e.InvoiceNo,
		Name:         e.Name,
		Gender:       e.Gender,
		FeeType:      string(e.FeeType),
		EntryDate:    e.EntryDate,
	}
	if e.Transfer != books.TagNone {
		resp.Transfer = string(e.Transfer)
	}
	if !e.AutoFee.IsZero() {
		resp.AutoFee = e.AutoFee.String()
	}
	return resp
}

type listEntriesResponse struct {
	Items []entryResponse `json:"items"`
	Count int             `json:"count"`
}

// Rules

type ruleRequest struct {
	AccountHead     string          `json:"account_head"`
	AccountClass    string          `json:"account_class"`
	RegistrationFee decimal.Decimal `json:"registration_fee,omitempty"`
	ServicesFee     decimal.Decimal `json:"services_fee,omitempty"`
	PromotionFee    decimal.Decimal `json:"promotion_fee,omitempty"`
	Date            string          `json:"date"`
	Remark          string          `json:"remark,omitempty"`
}

func (req ruleRequest) toInput() registry.RuleInput {
	return registry.RuleInput{
		AccountHead:     req.AccountHead,
		AccountClass:    req.AccountClass,
		RegistrationFee: req.RegistrationFee,
		ServicesFee:     req.ServicesFee,
		PromotionFee:    req.PromotionFee,
		Date:            req.Date,
		Remark:          req.Remark,
	}
}

type ruleResponse struct {
	ID              uuid.UUID `json:"id"`
	AccountHead     string    `json:"account_head"`
	AccountClass    string    `json:"account_class"`
	RegistrationFee string    `json:"registration_fee"`
	ServicesFee     string    `json:"services_fee"`
	PromotionFee    string    `json:"promotion_fee"`
	Date            string    `json:"date"`
	FY              string    `json:"fy"`
	Remark          string    `json:"remark,omitempty"`
}

func toRuleResponse(r books.Rule) ruleResponse {
	return ruleResponse{
		ID:              r.ID,
		AccountHead:     r.AccountHead,
		AccountClass:    r.AccountClass,
		RegistrationFee: r.RegistrationFee.String(),
		ServicesFee:     r.ServicesFee.String(),
		PromotionFee:    r.PromotionFee.String(),
		Date:            r.Date.Format("2006-01-02"),
		FY:              r.FiscalYear(),
		Remark:          r.Remark,
	}
}

// Customers

type customerRequest struct {
	AccountHead  string `json:"account_head,omitempty"`
	AccountClass string `json:"account_class"`
	Gender       string `json:"gender,omitempty"`
	Name         string `json:"name"`
}

func customerInput(req customerRequest) registry.CustomerInput {
	return registry.CustomerInput{
		AccountHead:  req.AccountHead,
		AccountClass: req.AccountClass,
		Gender:       req.Gender,
		Name:         req.Name,
	}
}

type customerResponse struct {
	ID           uuid.UUID `json:"id"`
	CustomID     string    `json:"custom_id"`
	AccountHead  string    `json:"account_head,omitempty"`
	AccountClass string    `json:"account_class"`
	Gender       string    `json:"gender,omitempty"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	EntryDate    time.Time `json:"entry_date"`
}

func toCustomerResponse(c books.Customer) customerResponse {
	return customerResponse{
		ID:           c.ID,
		CustomID:     c.CustomID,
		AccountHead:  c.AccountHead,
		AccountClass: c.AccountClass,
		Gender:       c.Gender,
		Name:         c.Name,
		DisplayName:  c.DisplayName(),
		EntryDate:    c.EntryDate,
	}
}

// Dashboard

type dashboardResponse struct {
	Books      map[string]map[string]string `json:"books"`
	Transfers  map[string]map[string]string `json:"transfers"`
	GrandTotal string                       `json:"grand_total"`
	Income     string                       `json:"income"`
	Expense    string                       `json:"expense"`
	Students   map[string]map[string]int    `json:"students"`
	Counts     map[string]int               `json:"counts"`
}

func toDashboardResponse(rep report.Report) dashboardResponse {
	resp := dashboardResponse{
		Books:      balancesOut(rep.Books),
		Transfers:  balancesOut(rep.Transfers),
		GrandTotal: rep.GrandTotal.String(),
		Income:     rep.Income.String(),
		Expense:    rep.Expense.String(),
		Students:   map[string]map[string]int{},
		Counts:     map[string]int{},
	}
	for class, byGender := range rep.Students {
		out := make(map[string]int, len(byGender))
		for g, n := range byGender {
			out[g] = n
		}
		resp.Students[class] = out
	}
	for b, n := range rep.Counts {
		resp.Counts[string(b)] = n
	}
	return resp
}

func balancesOut(in map[books.Book]report.MethodBalances) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for b, byMethod := range in {
		m := make(map[string]string, len(byMethod))
		for method, v := range byMethod {
			m[string(method)] = v.String()
		}
		out[string(b)] = m
	}
	return out
}
