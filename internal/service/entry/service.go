// Package entry implements entry enrichment and lifecycle: validation,
// derived fields (fiscal year, voucher/invoice numbers, auto fees) and
// create/update/delete through the store interfaces.
package entry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/errs"
	"schoolbooks/internal/fiscal"
	"schoolbooks/internal/query"
	"schoolbooks/internal/rules"
	"schoolbooks/internal/sequence"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ListEntries(ctx context.Context, book books.Book) ([]books.Entry, error)
	GetEntry(ctx context.Context, book books.Book, id uuid.UUID) (books.Entry, error)
	ListRules(ctx context.Context) ([]books.Rule, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	InsertEntry(ctx context.Context, e books.Entry) (books.Entry, error)
	UpdateEntry(ctx context.Context, e books.Entry) (books.Entry, error)
	DeleteEntry(ctx context.Context, book books.Book, id uuid.UUID) error
}

// Input carries one form submission. Date arrives as text in any of the
// accepted encodings; amounts default to zero when absent.
type Input struct {
	Date         string
	AccountHead  string
	AccountClass string
	Description  string
	Method       string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Transfer     string

	// Income book only.
	Name    string
	Gender  string
	FeeType string
}

// ValidationError lists the fields that failed validation. Nothing is
// partially enriched when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// Service exposes enrichment and entry lifecycle operations.
type Service interface {
	Enrich(ctx context.Context, book books.Book, in Input) (books.Entry, error)
	Create(ctx context.Context, book books.Book, in Input) (books.Entry, error)
	Update(ctx context.Context, book books.Book, id uuid.UUID, in Input) (books.Entry, error)
	Delete(ctx context.Context, book books.Book, id uuid.UUID) error
	List(ctx context.Context, book books.Book, params query.Params) ([]books.Entry, error)
}

type service struct {
	repo   Repo
	writer Writer
	now    func() time.Time
}

// New constructs the entry service.
func New(repo Repo, writer Writer) Service {
	return &service{repo: repo, writer: writer, now: time.Now}
}

// Enrich validates the input and computes every derived field for a new
// entry. It persists nothing; the caller decides what to do with the result.
func (s *service) Enrich(ctx context.Context, book books.Book, in Input) (books.Entry, error) {
	date, missing := validateRequired(book, in)
	if len(missing) > 0 {
		return books.Entry{}, &ValidationError{Fields: missing}
	}

	existing, err := s.repo.ListEntries(ctx, book)
	if err != nil {
		return books.Entry{}, err
	}

	e := books.Entry{
		Book:         book,
		Date:         date,
		VoucherNo:    sequence.NextVoucher(book, date, existing),
		AccountHead:  in.AccountHead,
		AccountClass: in.AccountClass,
		Description:  in.Description,
		Method:       books.ParseMethod(in.Method),
		Debit:        in.Debit,
		Credit:       in.Credit,
		Transfer:     books.ParseTransferTag(in.Transfer),
		EntryDate:    s.now(),
	}

	if book == books.BookIncome {
		e.InvoiceNo = sequence.NextInvoice(date, existing)
		e.Name = in.Name
		e.Gender = in.Gender
		e.FeeType = books.ParseFeeType(in.FeeType)
		table, err := s.repo.ListRules(ctx)
		if err != nil {
			return books.Entry{}, err
		}
		if amt, ok := rules.Resolve(table, e.AccountHead, e.AccountClass, e.FeeType); ok {
			e.AutoFee = amt
			// The auto fee seeds the amount; a user-typed amount wins.
			if e.Credit.IsZero() {
				e.Credit = amt
			}
		}
		if e.Credit.LessThanOrEqual(decimal.Zero) {
			return books.Entry{}, &ValidationError{Fields: []string{"credit"}}
		}
	}
	return e, nil
}

// Create enriches and persists a new entry.
func (s *service) Create(ctx context.Context, book books.Book, in Input) (books.Entry, error) {
	e, err := s.Enrich(ctx, book, in)
	if err != nil {
		return books.Entry{}, err
	}
	return s.writer.InsertEntry(ctx, e)
}

// Update applies the mutable business fields to an existing entry. The id,
// voucher/invoice numbers and entry timestamp are preserved from the
// original; the fiscal year follows the (possibly changed) date on read.
func (s *service) Update(ctx context.Context, book books.Book, id uuid.UUID, in Input) (books.Entry, error) {
	if id == uuid.Nil {
		return books.Entry{}, errs.ErrNotPersisted
	}
	orig, err := s.repo.GetEntry(ctx, book, id)
	if err != nil {
		return books.Entry{}, err
	}

	date, missing := validateRequired(book, in)
	if len(missing) > 0 {
		return books.Entry{}, &ValidationError{Fields: missing}
	}

	next := orig
	next.Date = date
	next.AccountHead = in.AccountHead
	next.AccountClass = in.AccountClass
	next.Description = in.Description
	next.Method = books.ParseMethod(in.Method)
	next.Debit = in.Debit
	next.Credit = in.Credit
	next.Transfer = books.ParseTransferTag(in.Transfer)
	if book == books.BookIncome {
		next.Name = in.Name
		next.Gender = in.Gender
		next.FeeType = books.ParseFeeType(in.FeeType)
		if next.Credit.LessThanOrEqual(decimal.Zero) {
			return books.Entry{}, &ValidationError{Fields: []string{"credit"}}
		}
	}
	return s.writer.UpdateEntry(ctx, next)
}

// Delete removes a persisted entry.
func (s *service) Delete(ctx context.Context, book books.Book, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrNotPersisted
	}
	return s.writer.DeleteEntry(ctx, book, id)
}

// List returns the book's entries after applying the filter params.
func (s *service) List(ctx context.Context, book books.Book, params query.Params) ([]books.Entry, error) {
	entries, err := s.repo.ListEntries(ctx, book)
	if err != nil {
		return nil, err
	}
	return query.Filter(entries, params), nil
}

// validateRequired checks the per-book required field set and parses the
// date. It returns the field names that are missing or invalid.
func validateRequired(book books.Book, in Input) (time.Time, []string) {
	var missing []string
	date, ok := fiscal.ParseDate(in.Date)
	if !ok {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.AccountHead) == "" {
		missing = append(missing, "accountHead")
	}
	if book == books.BookIncome {
		if strings.TrimSpace(in.AccountClass) == "" {
			missing = append(missing, "accountClass")
		}
		if strings.TrimSpace(in.Name) == "" {
			missing = append(missing, "name")
		}
	}
	if in.Debit.IsNegative() {
		missing = append(missing, "debit")
	}
	if in.Credit.IsNegative() {
		missing = append(missing, "credit")
	}
	return date, missing
}
