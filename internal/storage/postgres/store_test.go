package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func mustOpen(t *testing.T, dsn string) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func applyInitSQL(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Resolve init SQL path relative to this test file so CWD doesn't matter
	_, thisFile, _, _ := runtime.Caller(0)
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "../../../"))
	path := filepath.Join(repoRoot, "db", "migrations", "0001_init.sql")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read init sql: %v", err)
	}
	if _, err := s.pool.Exec(ctx, string(b)); err != nil {
		t.Fatalf("apply init sql: %v", err)
	}
}

func truncateAll(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.pool.Exec(ctx, `truncate entries, rules, customers, sequences`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()
	applyInitSQL(t, s)
	truncateAll(t, s)

	ctx := context.Background()
	in := books.Entry{
		Book:        books.BookBank,
		Date:        time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		VoucherNo:   "BK-100525-001",
		AccountHead: "Deposit",
		Description: "opening float",
		Method:      books.MethodBank,
		Debit:       decimal.NewFromInt(150000),
		EntryDate:   time.Now().UTC().Truncate(time.Microsecond),
	}
	got, err := s.InsertEntry(ctx, in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Fatalf("expected id assigned")
	}
	back, err := s.GetEntry(ctx, books.BookBank, got.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if back.VoucherNo != in.VoucherNo || back.AccountHead != in.AccountHead {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if !back.Debit.Equal(in.Debit) {
		t.Fatalf("debit mismatch: got %s want %s", back.Debit, in.Debit)
	}
	if back.FiscalYear() != "FY 25-26" {
		t.Fatalf("fy: got %q", back.FiscalYear())
	}
}

func TestSnapshotGroupsByBook(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()
	applyInitSQL(t, s)
	truncateAll(t, s)

	ctx := context.Background()
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	for _, e := range []books.Entry{
		{Book: books.BookBank, Date: day, Debit: decimal.NewFromInt(100), EntryDate: time.Now().UTC()},
		{Book: books.BookCash, Date: day, Debit: decimal.NewFromInt(50), EntryDate: time.Now().UTC()},
		{Book: books.BookCash, Date: day.AddDate(0, 0, 1), Credit: decimal.NewFromInt(20), EntryDate: time.Now().UTC()},
	} {
		if _, err := s.InsertEntry(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap[books.BookBank]) != 1 || len(snap[books.BookCash]) != 2 {
		t.Fatalf("unexpected snapshot shape: bank=%d cash=%d", len(snap[books.BookBank]), len(snap[books.BookCash]))
	}
	if snap[books.BookCash][0].Date.After(snap[books.BookCash][1].Date) {
		t.Fatalf("expected date-ordered entries per book")
	}
}

func TestNextSequenceMonotonic(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()
	applyInitSQL(t, s)
	truncateAll(t, s)

	ctx := context.Background()
	a, err := s.NextSequence(ctx, "invoice:FY 25-26")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	b, err := s.NextSequence(ctx, "invoice:FY 25-26")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a != 1 || b != 2 {
		t.Fatalf("expected 1,2 got %d,%d", a, b)
	}
	other, err := s.NextSequence(ctx, "customer:FY 25-26")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if other != 1 {
		t.Fatalf("scopes must not bleed: got %d", other)
	}
}

func TestRuleLifecycle(t *testing.T) {
	dsn := getTestDSN(t)
	s := mustOpen(t, dsn)
	defer s.Close()
	applyInitSQL(t, s)
	truncateAll(t, s)

	ctx := context.Background()
	r, err := s.InsertRule(ctx, books.Rule{
		AccountHead:     "Boarder",
		AccountClass:    "G_5",
		RegistrationFee: decimal.NewFromInt(20000),
		Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insert rule: %v", err)
	}
	r.ServicesFee = decimal.NewFromInt(5000)
	if _, err := s.UpdateRule(ctx, r); err != nil {
		t.Fatalf("update rule: %v", err)
	}
	got, err := s.GetRule(ctx, r.ID)
	if err != nil {
		t.Fatalf("get rule: %v", err)
	}
	if !got.ServicesFee.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("services fee: got %s", got.ServicesFee)
	}
	if err := s.DeleteRule(ctx, r.ID); err != nil {
		t.Fatalf("delete rule: %v", err)
	}
	if _, err := s.GetRule(ctx, r.ID); err == nil {
		t.Fatalf("expected not found after delete")
	}
}
