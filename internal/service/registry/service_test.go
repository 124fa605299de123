package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/errs"
	"schoolbooks/internal/storage/memory"
)

func setup() (*memory.Store, Service) {
	store := memory.New()
	return store, New(store, store)
}

func TestCreateCustomerAssignsSequentialCustomIDs(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	first, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Aung Aung", AccountClass: "G_3", AccountHead: "Boarder", Gender: "M"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Su Su", AccountClass: "G_5", AccountHead: "Day Scholar", Gender: "F"})
	if err != nil {
		t.Fatal(err)
	}
	if first.CustomID != "ID-0001" || second.CustomID != "ID-0002" {
		t.Fatalf("custom ids = %q, %q", first.CustomID, second.CustomID)
	}
	if got := second.DisplayName(); got != "G_5 (F) Su Su" {
		t.Fatalf("display name = %q", got)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	_, svc := setup()
	if _, err := svc.CreateCustomer(context.Background(), CustomerInput{Name: "", AccountClass: "G_3"}); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestFindCustomer(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	c, _ := svc.CreateCustomer(ctx, CustomerInput{Name: "Aung Aung", AccountClass: "G_3"})
	got, err := svc.FindCustomer(ctx, c.CustomID)
	if err != nil || got.Name != "Aung Aung" {
		t.Fatalf("FindCustomer = %+v, %v", got, err)
	}
	if _, err := svc.FindCustomer(ctx, "ID-9999"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRuleLifecycle(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	r, err := svc.CreateRule(ctx, RuleInput{
		AccountHead:     "Boarder",
		AccountClass:    "G_5",
		RegistrationFee: decimal.NewFromInt(20000),
		Date:            "2025-04-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.FiscalYear() != "FY 25-26" {
		t.Fatalf("rule fy = %q", r.FiscalYear())
	}

	updated, err := svc.UpdateRule(ctx, r.ID, RuleInput{
		AccountHead:     "Boarder",
		AccountClass:    "G_5",
		RegistrationFee: decimal.NewFromInt(25000),
		Date:            "2025-04-01",
		Remark:          "revised",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != r.ID || !updated.RegistrationFee.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("update: %+v", updated)
	}

	if err := svc.DeleteRule(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	left, _ := svc.ListRules(ctx)
	if len(left) != 0 {
		t.Fatalf("rules left: %+v", left)
	}
}

func TestRuleValidation(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	if _, err := svc.CreateRule(ctx, RuleInput{AccountClass: "G_5", Date: "2025-04-01"}); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("missing head: %v", err)
	}
	if _, err := svc.CreateRule(ctx, RuleInput{AccountHead: "Boarder", AccountClass: "G_5", Date: "2025-04-01", ServicesFee: decimal.NewFromInt(-1)}); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("negative fee: %v", err)
	}
	if _, err := svc.UpdateRule(ctx, uuid.Nil, RuleInput{}); !errors.Is(err, errs.ErrNotPersisted) {
		t.Fatalf("nil id: %v", err)
	}
}
