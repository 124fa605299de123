// Package registry implements the customer registry and the fee-schedule
// (rules) lifecycle.
package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/errs"
	"schoolbooks/internal/fiscal"
	"schoolbooks/internal/sequence"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ListCustomers(ctx context.Context) ([]books.Customer, error)
	ListRules(ctx context.Context) ([]books.Rule, error)
	GetRule(ctx context.Context, id uuid.UUID) (books.Rule, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	InsertCustomer(ctx context.Context, c books.Customer) (books.Customer, error)
	InsertRule(ctx context.Context, r books.Rule) (books.Rule, error)
	UpdateRule(ctx context.Context, r books.Rule) (books.Rule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

// CustomerInput is one registry form submission.
type CustomerInput struct {
	AccountHead  string
	AccountClass string
	Gender       string
	Name         string
}

// RuleInput is one fee-schedule form submission.
type RuleInput struct {
	AccountHead     string
	AccountClass    string
	RegistrationFee decimal.Decimal
	ServicesFee     decimal.Decimal
	PromotionFee    decimal.Decimal
	Date            string
	Remark          string
}

// Service exposes customer and rule operations.
type Service interface {
	CreateCustomer(ctx context.Context, in CustomerInput) (books.Customer, error)
	ListCustomers(ctx context.Context) ([]books.Customer, error)
	FindCustomer(ctx context.Context, customID string) (books.Customer, error)
	CreateRule(ctx context.Context, in RuleInput) (books.Rule, error)
	UpdateRule(ctx context.Context, id uuid.UUID, in RuleInput) (books.Rule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	ListRules(ctx context.Context) ([]books.Rule, error)
}

// Sequencer allocates named monotonic counters. Stores that provide one get
// collision-free custom ids under concurrent creation; otherwise the id is
// derived by counting the existing records.
type Sequencer interface {
	NextSequence(ctx context.Context, scope string) (int64, error)
}

type service struct {
	repo   Repo
	writer Writer
	seq    Sequencer
	now    func() time.Time
}

// New constructs the registry service.
func New(repo Repo, writer Writer) Service {
	s := &service{repo: repo, writer: writer, now: time.Now}
	if sq, ok := writer.(Sequencer); ok {
		s.seq = sq
	}
	return s
}

// CreateCustomer assigns the per-FY custom id and persists the record.
func (s *service) CreateCustomer(ctx context.Context, in CustomerInput) (books.Customer, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.AccountClass) == "" {
		return books.Customer{}, errs.ErrInvalid
	}
	now := s.now()
	customID, err := s.nextCustomID(ctx, now)
	if err != nil {
		return books.Customer{}, err
	}
	c := books.Customer{
		CustomID:     customID,
		AccountHead:  in.AccountHead,
		AccountClass: in.AccountClass,
		Gender:       in.Gender,
		Name:         in.Name,
		EntryDate:    now,
	}
	return s.writer.InsertCustomer(ctx, c)
}

// nextCustomID prefers the store's atomic counter, scoped per fiscal year,
// and falls back to counting the registry when the store has none.
func (s *service) nextCustomID(ctx context.Context, now time.Time) (string, error) {
	if s.seq != nil {
		n, err := s.seq.NextSequence(ctx, "customer:"+fiscal.Label(now))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ID-%04d", n), nil
	}
	existing, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return "", err
	}
	return sequence.NextCustomID(now, existing), nil
}

func (s *service) ListCustomers(ctx context.Context) ([]books.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// FindCustomer resolves a registry record by its custom id, used to prefill
// income entries.
func (s *service) FindCustomer(ctx context.Context, customID string) (books.Customer, error) {
	all, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return books.Customer{}, err
	}
	for _, c := range all {
		if strings.EqualFold(c.CustomID, customID) {
			return c, nil
		}
	}
	return books.Customer{}, errs.ErrNotFound
}

func (s *service) CreateRule(ctx context.Context, in RuleInput) (books.Rule, error) {
	r, err := toRule(in)
	if err != nil {
		return books.Rule{}, err
	}
	return s.writer.InsertRule(ctx, r)
}

// UpdateRule replaces the business fields of an existing rule.
func (s *service) UpdateRule(ctx context.Context, id uuid.UUID, in RuleInput) (books.Rule, error) {
	if id == uuid.Nil {
		return books.Rule{}, errs.ErrNotPersisted
	}
	orig, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return books.Rule{}, err
	}
	next, err := toRule(in)
	if err != nil {
		return books.Rule{}, err
	}
	next.ID = orig.ID
	return s.writer.UpdateRule(ctx, next)
}

func (s *service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrNotPersisted
	}
	return s.writer.DeleteRule(ctx, id)
}

func (s *service) ListRules(ctx context.Context) ([]books.Rule, error) {
	return s.repo.ListRules(ctx)
}

func toRule(in RuleInput) (books.Rule, error) {
	if strings.TrimSpace(in.AccountHead) == "" || strings.TrimSpace(in.AccountClass) == "" {
		return books.Rule{}, errs.ErrInvalid
	}
	if in.RegistrationFee.IsNegative() || in.ServicesFee.IsNegative() || in.PromotionFee.IsNegative() {
		return books.Rule{}, errs.ErrInvalid
	}
	date, ok := fiscal.ParseDate(in.Date)
	if !ok {
		return books.Rule{}, errs.ErrInvalid
	}
	return books.Rule{
		AccountHead:     in.AccountHead,
		AccountClass:    in.AccountClass,
		RegistrationFee: in.RegistrationFee,
		ServicesFee:     in.ServicesFee,
		PromotionFee:    in.PromotionFee,
		Date:            date,
		Remark:          in.Remark,
	}, nil
}
