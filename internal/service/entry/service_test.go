package entry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/errs"
	"schoolbooks/internal/query"
	"schoolbooks/internal/storage/memory"
)

func setup() (*memory.Store, Service) {
	store := memory.New()
	return store, New(store, store)
}

func TestEnrichBankEntry(t *testing.T) {
	_, svc := setup()
	e, err := svc.Enrich(context.Background(), books.BookBank, Input{
		Date:        "10-05-2025",
		AccountHead: "Deposit",
		Debit:       decimal.NewFromInt(5000),
		Method:      "bank",
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.FiscalYear() != "FY 25-26" {
		t.Fatalf("fy = %q, want FY 25-26", e.FiscalYear())
	}
	if e.VoucherNo != "BK-100525-001" {
		t.Fatalf("voucher = %q, want BK-100525-001", e.VoucherNo)
	}
	if e.Persisted() {
		t.Fatal("enrich must not assign an id")
	}
}

func TestEnrichIncomeAutoFee(t *testing.T) {
	store, svc := setup()
	store.SeedRule(books.Rule{AccountHead: "Boarder", AccountClass: "G_3", RegistrationFee: decimal.NewFromInt(20000)})

	e, err := svc.Enrich(context.Background(), books.BookIncome, Input{
		Date:         "2025-05-10",
		AccountHead:  "Boarder",
		AccountClass: "G_3",
		Name:         "Aung Aung",
		Gender:       "M",
		FeeType:      "Registration",
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.FiscalYear() != "FY 25-26" {
		t.Fatalf("fy = %q", e.FiscalYear())
	}
	if !e.AutoFee.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("autoFee = %s, want 20000", e.AutoFee)
	}
	if !e.Credit.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("credit = %s, want 20000 (seeded from auto fee)", e.Credit)
	}
	if e.InvoiceNo != "INV-0001" {
		t.Fatalf("invoice = %q", e.InvoiceNo)
	}
}

func TestEnrichIncomeUserOverridesAutoFee(t *testing.T) {
	store, svc := setup()
	store.SeedRule(books.Rule{AccountHead: "Boarder", AccountClass: "G_3", RegistrationFee: decimal.NewFromInt(20000)})
	e, err := svc.Enrich(context.Background(), books.BookIncome, Input{
		Date:         "2025-05-10",
		AccountHead:  "Boarder",
		AccountClass: "G_3",
		Name:         "Aung Aung",
		FeeType:      "Registration",
		Credit:       decimal.NewFromInt(12345),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !e.Credit.Equal(decimal.NewFromInt(12345)) {
		t.Fatalf("credit = %s, want user override 12345", e.Credit)
	}
	if !e.AutoFee.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("autoFee = %s, want 20000 (display value unaffected)", e.AutoFee)
	}
}

func TestEnrichValidationFailures(t *testing.T) {
	_, svc := setup()
	_, err := svc.Enrich(context.Background(), books.BookIncome, Input{
		Date: "not-a-date",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	want := map[string]bool{"date": true, "accountHead": true, "accountClass": true, "name": true}
	for _, f := range verr.Fields {
		if !want[f] {
			t.Errorf("unexpected field %q", f)
		}
		delete(want, f)
	}
	if len(want) != 0 {
		t.Errorf("missing fields: %v", want)
	}

	// Income amount must be positive: Ferry is not auto-priced, so with no
	// user amount the entry is invalid.
	_, err = svc.Enrich(context.Background(), books.BookIncome, Input{
		Date: "2025-05-10", AccountHead: "Boarder", AccountClass: "G_3", Name: "X", FeeType: "Ferry",
	})
	if !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[0] != "credit" {
		t.Fatalf("err = %v, want credit validation failure", err)
	}
}

func TestCreateSequencesPerDay(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	in := Input{Date: "10-05-2025", AccountHead: "Deposit", Debit: decimal.NewFromInt(100)}
	first, err := svc.Create(ctx, books.BookBank, in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, books.BookBank, in)
	if err != nil {
		t.Fatal(err)
	}
	if first.VoucherNo != "BK-100525-001" || second.VoucherNo != "BK-100525-002" {
		t.Fatalf("vouchers = %q, %q", first.VoucherNo, second.VoucherNo)
	}
	if !second.Persisted() {
		t.Fatal("create must persist")
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	orig, err := svc.Create(ctx, books.BookOffice, Input{Date: "10-05-2025", AccountHead: "Stationery", Credit: decimal.NewFromInt(300)})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := svc.Update(ctx, books.BookOffice, orig.ID, Input{
		Date:        "2025-06-01", // date edit moves the FY derivation, not the voucher
		AccountHead: "Repairs",
		Credit:      decimal.NewFromInt(450),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != orig.ID || updated.VoucherNo != orig.VoucherNo {
		t.Fatal("update must preserve id and voucher number")
	}
	if updated.AccountHead != "Repairs" || !updated.Credit.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("business fields not applied: %+v", updated)
	}
	if updated.FiscalYear() != "FY 25-26" {
		t.Fatalf("fy = %q", updated.FiscalYear())
	}
}

func TestUpdateAndDeleteRequirePersistedID(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	if _, err := svc.Update(ctx, books.BookBank, uuid.Nil, Input{Date: "2025-05-10", AccountHead: "Deposit"}); !errors.Is(err, errs.ErrNotPersisted) {
		t.Fatalf("update nil id: %v", err)
	}
	if err := svc.Delete(ctx, books.BookBank, uuid.Nil); !errors.Is(err, errs.ErrNotPersisted) {
		t.Fatalf("delete nil id: %v", err)
	}
	if _, err := svc.Update(ctx, books.BookBank, uuid.New(), Input{Date: "2025-05-10", AccountHead: "Deposit"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("update unknown id: %v", err)
	}
}

func TestListAppliesFilters(t *testing.T) {
	_, svc := setup()
	ctx := context.Background()
	svc.Create(ctx, books.BookCash, Input{Date: "10-05-2025", AccountHead: "Receipt", Description: "fees", Debit: decimal.NewFromInt(10)})
	svc.Create(ctx, books.BookCash, Input{Date: "10-05-2025", AccountHead: "Payment", Description: "soap", Credit: decimal.NewFromInt(5)})

	got, err := svc.List(ctx, books.BookCash, query.Params{"accountHead": "Receipt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].AccountHead != "Receipt" {
		t.Fatalf("got %+v", got)
	}
	all, _ := svc.List(ctx, books.BookCash, nil)
	if len(all) != 2 {
		t.Fatalf("unfiltered list = %d, want 2", len(all))
	}
}
