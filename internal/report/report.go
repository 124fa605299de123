// Package report computes the cross-book balance aggregation behind the
// dashboard and report views. Everything here is a pure fold over an entry
// snapshot: no state survives between calls, so repeated calls on the same
// snapshot yield identical results.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/fiscal"
)

// Snapshot is a consistent read of every book's entries. Callers must not
// mix reads from different moments or the consolidated totals will tear.
type Snapshot map[books.Book][]books.Entry

// Options scope the aggregation. FY matches the date-derived fiscal-year
// label; From/To bound the entry date inclusively.
type Options struct {
	FY   string
	From *time.Time
	To   *time.Time
}

// MethodBalances holds a net amount per payment channel.
type MethodBalances map[books.Method]decimal.Decimal

// StudentTable counts distinct students per class and gender.
type StudentTable map[string]map[string]int

// Report is the recomputed-on-demand aggregate consumed by the dashboard.
type Report struct {
	// Books holds each book's own net balance per payment channel.
	Books map[books.Book]MethodBalances
	// Transfers holds, per expense book and channel, transfers-in from the
	// Bank/Cash books minus that book's own spending: the unspent remainder
	// of routed money.
	Transfers map[books.Book]MethodBalances
	// GrandTotal is the consolidated net across all books.
	GrandTotal decimal.Decimal
	// Income and Expense are scoped totals of the Income book's credits and
	// the expense books' credits.
	Income  decimal.Decimal
	Expense decimal.Decimal
	// Students tallies distinct (name, class, gender) triples in the Income
	// book within scope.
	Students StudentTable
	// Counts reports how many entries per book were included.
	Counts map[books.Book]int
}

// Aggregate folds the snapshot into a Report. Malformed entries are handled
// best-effort: missing amounts read as zero, and entries carrying an
// unrecognized transfer tag are excluded from every total.
func Aggregate(snap Snapshot, opts Options) Report {
	rep := Report{
		Books:     make(map[books.Book]MethodBalances),
		Transfers: make(map[books.Book]MethodBalances),
		Students:  make(StudentTable),
		Counts:    make(map[books.Book]int),
	}
	seenStudents := make(map[[3]string]struct{})

	for _, book := range books.All() {
		for _, e := range snap[book] {
			if !inScope(e, opts) {
				continue
			}
			if e.Transfer == books.TagUnrecognized {
				// Free-text tag that matches nothing known: keep it out of
				// every balance rather than guessing a destination.
				continue
			}
			rep.Counts[book]++
			method := effectiveMethod(e)

			switch {
			case book == books.BookBank || book == books.BookCash:
				add(rep.Books, book, method, e.Debit.Sub(e.Credit))
				if target, ok := e.Transfer.Target(); ok {
					add(rep.Transfers, target, method, e.Credit)
				}
			case book == books.BookIncome:
				add(rep.Books, book, method, e.Credit)
				rep.Income = rep.Income.Add(e.Credit)
				countStudent(rep.Students, seenStudents, e)
			default: // expense books: every credit is spend
				add(rep.Books, book, method, e.Credit.Neg())
				add(rep.Transfers, book, method, e.Credit.Neg())
				rep.Expense = rep.Expense.Add(e.Credit)
			}
		}
	}

	for _, perMethod := range rep.Books {
		for _, v := range perMethod {
			rep.GrandTotal = rep.GrandTotal.Add(v)
		}
	}
	return rep
}

// Balance returns the net for one (book, method) bucket, zero when absent.
func (r Report) Balance(book books.Book, method books.Method) decimal.Decimal {
	return r.Books[book][method]
}

// TransferBalance returns the unspent routed money for one expense book and
// channel, zero when absent.
func (r Report) TransferBalance(book books.Book, method books.Method) decimal.Decimal {
	return r.Transfers[book][method]
}

func inScope(e books.Entry, opts Options) bool {
	if opts.FY != "" && !fiscal.Contains(opts.FY, e.Date) {
		return false
	}
	if opts.From != nil && e.Date.Before(*opts.From) {
		return false
	}
	if opts.To != nil && e.Date.After(*opts.To) {
		return false
	}
	return true
}

// effectiveMethod buckets entries without a channel under Cash, matching how
// the capture screens treat untagged money.
func effectiveMethod(e books.Entry) books.Method {
	if m := e.EffectiveMethod(); m != "" {
		return m
	}
	return books.MethodCash
}

func add(m map[books.Book]MethodBalances, book books.Book, method books.Method, v decimal.Decimal) {
	per, ok := m[book]
	if !ok {
		per = make(MethodBalances)
		m[book] = per
	}
	per[method] = per[method].Add(v)
}

func countStudent(table StudentTable, seen map[[3]string]struct{}, e books.Entry) {
	if e.Name == "" {
		return
	}
	key := [3]string{e.Name, e.AccountClass, e.Gender}
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}
	byGender, ok := table[e.AccountClass]
	if !ok {
		byGender = make(map[string]int)
		table[e.AccountClass] = byGender
	}
	byGender[e.Gender]++
}
