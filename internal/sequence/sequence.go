// Package sequence derives human-readable voucher, invoice and customer
// identifiers from a snapshot of existing records.
//
// Sequence numbers are re-counted from the snapshot on every call, not read
// from a persisted counter, so two concurrent creations against the same
// bucket can collide. Callers must treat these identifiers as advisory
// display strings; the store-assigned record id is the only uniqueness key.
package sequence

import (
	"fmt"
	"time"

	"schoolbooks/internal/books"
	"schoolbooks/internal/fiscal"
)

var voucherPrefix = map[books.Book]string{
	books.BookBank:    "BK",
	books.BookCash:    "CSH",
	books.BookIncome:  "INV",
	books.BookOffice:  "Exp",
	books.BookSalary:  "Staff",
	books.BookKitchen: "KT",
}

// NextVoucher produces the next voucher number for (book, date):
// <prefix>-<DDMMYY>-<seq>, where seq counts existing same-book entries on
// the same calendar day plus one, zero-padded to three digits.
func NextVoucher(book books.Book, date time.Time, existing []books.Entry) string {
	n := 0
	for _, e := range existing {
		if e.Book != book {
			continue
		}
		if sameDay(e.Date, date) {
			n++
		}
	}
	return fmt.Sprintf("%s-%s-%03d", voucherPrefix[book], date.Format("020106"), n+1)
}

// NextInvoice produces the next income invoice number, scoped per fiscal
// year instead of per day: INV-<seq>, zero-padded to four digits.
func NextInvoice(date time.Time, existing []books.Entry) string {
	fy := fiscal.Label(date)
	n := 0
	for _, e := range existing {
		if e.Book == books.BookIncome && e.FiscalYear() == fy {
			n++
		}
	}
	return fmt.Sprintf("INV-%04d", n+1)
}

// NextCustomID produces the next customer id, ID-<seq> zero-padded to four
// digits, resetting each fiscal year.
func NextCustomID(date time.Time, existing []books.Customer) string {
	fy := fiscal.Label(date)
	n := 0
	for _, c := range existing {
		if fiscal.Label(c.EntryDate) == fy {
			n++
		}
	}
	return fmt.Sprintf("ID-%04d", n+1)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
