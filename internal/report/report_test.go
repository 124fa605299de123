package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestTransferNetting(t *testing.T) {
	snap := Snapshot{
		books.BookBank: {
			{Book: books.BookBank, Date: day(2025, 5, 10), Credit: dec(1000), Method: books.MethodBank, Transfer: books.TagOfficeExp},
		},
		books.BookOffice: {
			{Book: books.BookOffice, Date: day(2025, 5, 12), Credit: dec(400), Method: books.MethodBank},
		},
	}
	rep := Aggregate(snap, Options{})
	if got := rep.TransferBalance(books.BookOffice, books.MethodBank); !got.Equal(dec(600)) {
		t.Fatalf("Office/Bank transfer net = %s, want 600", got)
	}
	// The bank book itself still shows the money leaving.
	if got := rep.Balance(books.BookBank, books.MethodBank); !got.Equal(dec(-1000)) {
		t.Fatalf("Bank/Bank net = %s, want -1000", got)
	}
}

func TestTransferNettingPerMethod(t *testing.T) {
	snap := Snapshot{
		books.BookCash: {
			{Book: books.BookCash, Date: day(2025, 5, 10), Credit: dec(500), Method: books.MethodKpay, Transfer: books.TagKitchenExp},
			{Book: books.BookCash, Date: day(2025, 5, 10), Credit: dec(300), Method: books.MethodCash, Transfer: books.TagKitchenExp},
		},
		books.BookKitchen: {
			{Book: books.BookKitchen, Date: day(2025, 5, 11), Credit: dec(200), Method: books.MethodKpay},
		},
	}
	rep := Aggregate(snap, Options{})
	if got := rep.TransferBalance(books.BookKitchen, books.MethodKpay); !got.Equal(dec(300)) {
		t.Fatalf("Kitchen/Kpay = %s, want 300", got)
	}
	if got := rep.TransferBalance(books.BookKitchen, books.MethodCash); !got.Equal(dec(300)) {
		t.Fatalf("Kitchen/Cash = %s, want 300", got)
	}
}

func TestUnrecognizedTagIgnoredEntirely(t *testing.T) {
	snap := Snapshot{
		books.BookBank: {
			{Book: books.BookBank, Date: day(2025, 5, 10), Credit: dec(1000), Method: books.MethodBank, Transfer: books.ParseTransferTag("Ofice Exp")},
		},
	}
	rep := Aggregate(snap, Options{})
	if !rep.GrandTotal.IsZero() {
		t.Fatalf("grand total = %s, want 0 (typo'd tag must not count)", rep.GrandTotal)
	}
	if len(rep.Transfers) != 0 {
		t.Fatalf("transfers = %v, want none", rep.Transfers)
	}
}

func TestIncomeAndExpenseTotalsWithFYScope(t *testing.T) {
	snap := Snapshot{
		books.BookIncome: {
			{Book: books.BookIncome, Date: day(2025, 5, 10), Credit: dec(20000), Method: books.MethodCash, Name: "Aung Aung", AccountClass: "G_3", Gender: "M"},
			{Book: books.BookIncome, Date: day(2025, 6, 1), Credit: dec(5000), Method: books.MethodCash, Name: "Aung Aung", AccountClass: "G_3", Gender: "M"},
			{Book: books.BookIncome, Date: day(2025, 6, 2), Credit: dec(15000), Method: books.MethodKpay, Name: "Su Su", AccountClass: "G_3", Gender: "F"},
			{Book: books.BookIncome, Date: day(2024, 6, 2), Credit: dec(9999), Method: books.MethodCash, Name: "Old Kid", AccountClass: "G_2", Gender: "M"},
		},
		books.BookSalary: {
			{Book: books.BookSalary, Date: day(2025, 5, 30), Credit: dec(12000), Method: books.MethodCash},
			{Book: books.BookSalary, Date: day(2024, 5, 30), Credit: dec(11000), Method: books.MethodCash},
		},
	}
	rep := Aggregate(snap, Options{FY: "FY 25-26"})
	if !rep.Income.Equal(dec(40000)) {
		t.Fatalf("income = %s, want 40000", rep.Income)
	}
	if !rep.Expense.Equal(dec(12000)) {
		t.Fatalf("expense = %s, want 12000", rep.Expense)
	}
	// Student counts dedupe (name, class, gender) within the FY.
	want := StudentTable{"G_3": {"M": 1, "F": 1}}
	if !reflect.DeepEqual(rep.Students, want) {
		t.Fatalf("students = %v, want %v", rep.Students, want)
	}
	if rep.Counts[books.BookIncome] != 3 {
		t.Fatalf("income count = %d, want 3", rep.Counts[books.BookIncome])
	}
}

func TestDateRangeScope(t *testing.T) {
	from, to := day(2025, 5, 1), day(2025, 5, 31)
	snap := Snapshot{
		books.BookCash: {
			{Book: books.BookCash, Date: day(2025, 5, 10), Debit: dec(700)},
			{Book: books.BookCash, Date: day(2025, 6, 10), Debit: dec(300)},
		},
	}
	rep := Aggregate(snap, Options{From: &from, To: &to})
	if got := rep.Balance(books.BookCash, books.MethodCash); !got.Equal(dec(700)) {
		t.Fatalf("cash net = %s, want 700", got)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	snap := Snapshot{
		books.BookBank: {
			{Book: books.BookBank, Date: day(2025, 5, 10), Debit: dec(1500), Credit: dec(200), Method: books.MethodBank},
		},
		books.BookOffice: {
			{Book: books.BookOffice, Date: day(2025, 5, 11), Credit: dec(100), Method: books.MethodCash},
		},
	}
	first := Aggregate(snap, Options{})
	second := Aggregate(snap, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Fatal("aggregate is not idempotent over an unchanged snapshot")
	}
	if !first.GrandTotal.Equal(dec(1200)) {
		t.Fatalf("grand total = %s, want 1200", first.GrandTotal)
	}
}

func TestMalformedEntryDefaultsToZero(t *testing.T) {
	// Zero-valued amounts and an empty method must not abort the scan.
	snap := Snapshot{
		books.BookIncome: {
			{Book: books.BookIncome, Date: day(2025, 5, 10)},
			{Book: books.BookIncome, Date: day(2025, 5, 10), Credit: dec(100)},
		},
	}
	rep := Aggregate(snap, Options{})
	if !rep.Income.Equal(dec(100)) {
		t.Fatalf("income = %s, want 100", rep.Income)
	}
	// Untagged money buckets under Cash.
	if got := rep.Balance(books.BookIncome, books.MethodCash); !got.Equal(dec(100)) {
		t.Fatalf("income/cash = %s, want 100", got)
	}
}
