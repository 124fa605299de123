package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
)

func sample() []books.Entry {
	d := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	return []books.Entry{
		{Book: books.BookBank, Date: d, VoucherNo: "BK-100525-001", AccountHead: "Deposit", Description: "monthly fees banked", Method: books.MethodBank, Debit: decimal.NewFromInt(1000)},
		{Book: books.BookBank, Date: d, VoucherNo: "BK-100525-002", AccountHead: "Withdrawal", Description: "cash drawn", Method: books.MethodKpay, Credit: decimal.NewFromInt(400)},
		{Book: books.BookCash, Date: d, VoucherNo: "CSH-100525-001", AccountHead: "Receipt", Description: "Fees received"},
	}
}

func TestFilterEmptyParamsPassThrough(t *testing.T) {
	in := sample()
	got := Filter(in, Params{})
	if !reflect.DeepEqual(got, in) {
		t.Fatal("empty params should return entries unchanged")
	}
	// All-empty values behave the same.
	got = Filter(in, Params{"accountHead": "", "description": "  "})
	if !reflect.DeepEqual(got, in) {
		t.Fatal("blank filter values should constrain nothing")
	}
}

func TestFilterSubstringCaseInsensitive(t *testing.T) {
	got := Filter(sample(), Params{"description": "FEES"})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
}

func TestFilterExactMatchFields(t *testing.T) {
	// "Ka" would substring-match "Kpay" but method is an exact field.
	if got := Filter(sample(), Params{"method": "Kpay"}); len(got) != 1 || got[0].VoucherNo != "BK-100525-002" {
		t.Fatalf("method=Kpay: got %+v", got)
	}
	if got := Filter(sample(), Params{"method": "Kpa"}); len(got) != 0 {
		t.Fatalf("partial method value should match nothing, got %d", len(got))
	}
}

func TestFilterConjunction(t *testing.T) {
	got := Filter(sample(), Params{"book": "bank", "description": "fees"})
	if len(got) != 1 || got[0].VoucherNo != "BK-100525-001" {
		t.Fatalf("got %+v", got)
	}
}

func TestFilterMissingFieldReadsEmpty(t *testing.T) {
	// name is only set on income entries; filtering on it must not panic and
	// must exclude entries where it reads empty.
	if got := Filter(sample(), Params{"name": "aung"}); len(got) != 0 {
		t.Fatalf("got %d, want 0", len(got))
	}
	// Unknown field names read as empty too.
	if got := Filter(sample(), Params{"no_such_field": "x"}); len(got) != 0 {
		t.Fatalf("unknown field: got %d, want 0", len(got))
	}
}
