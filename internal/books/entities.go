package books

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/fiscal"
)

// Book identifies one ledger category.
type Book string

const (
	BookBank    Book = "bank"
	BookCash    Book = "cash"
	BookIncome  Book = "income"
	BookOffice  Book = "office"
	BookSalary  Book = "salary"
	BookKitchen Book = "kitchen"
)

// All returns every book in a stable order.
func All() []Book {
	return []Book{BookBank, BookCash, BookIncome, BookOffice, BookSalary, BookKitchen}
}

// ExpenseBooks are the pure-expense ledgers: every credit is a spend.
func ExpenseBooks() []Book {
	return []Book{BookOffice, BookSalary, BookKitchen}
}

// ParseBook maps a name to a Book, case-insensitively. ok is false for
// anything outside the fixed set.
func ParseBook(s string) (Book, bool) {
	switch Book(strings.ToLower(strings.TrimSpace(s))) {
	case BookBank:
		return BookBank, true
	case BookCash:
		return BookCash, true
	case BookIncome:
		return BookIncome, true
	case BookOffice:
		return BookOffice, true
	case BookSalary:
		return BookSalary, true
	case BookKitchen:
		return BookKitchen, true
	}
	return "", false
}

// IsExpense reports whether b is one of the pure-expense books.
func (b Book) IsExpense() bool {
	return b == BookOffice || b == BookSalary || b == BookKitchen
}

// Method is the payment channel of an entry.
type Method string

const (
	MethodCash Method = "Cash"
	MethodKpay Method = "Kpay"
	MethodBank Method = "Bank"
)

// Methods returns the closed set of payment channels.
func Methods() []Method { return []Method{MethodCash, MethodKpay, MethodBank} }

// ParseMethod maps free text to a Method. Unknown values yield the zero
// Method rather than an error; callers decide whether that is acceptable.
func ParseMethod(s string) Method {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return MethodCash
	case "kpay", "kpay-bank":
		return MethodKpay
	case "bank":
		return MethodBank
	}
	return ""
}

// DefaultMethod is the channel implied by the book itself when an entry
// carries none: the Bank book moves bank money, the Cash book cash.
func (b Book) DefaultMethod() Method {
	switch b {
	case BookBank:
		return MethodBank
	case BookCash:
		return MethodCash
	}
	return ""
}

// TransferTag marks a Bank/Cash entry as money routed into an expense book.
type TransferTag string

const (
	TagNone       TransferTag = ""
	TagOfficeExp  TransferTag = "Office Exp"
	TagSalaryExp  TransferTag = "Salary Exp"
	TagKitchenExp TransferTag = "Kitchen Exp"
	// TagUnrecognized is returned for free text that matches no known tag.
	// The aggregator ignores it instead of guessing.
	TagUnrecognized TransferTag = "unrecognized"
)

// ParseTransferTag normalizes free text into the closed tag set. It never
// errors: empty input is TagNone, anything unknown is TagUnrecognized.
func ParseTransferTag(s string) TransferTag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TagNone
	case "office exp", "office":
		return TagOfficeExp
	case "salary exp", "salary":
		return TagSalaryExp
	case "kitchen exp", "kitchen":
		return TagKitchenExp
	}
	return TagUnrecognized
}

// Target resolves the expense book a tag routes money into.
func (t TransferTag) Target() (Book, bool) {
	switch t {
	case TagOfficeExp:
		return BookOffice, true
	case TagSalaryExp:
		return BookSalary, true
	case TagKitchenExp:
		return BookKitchen, true
	}
	return "", false
}

// FeeType classifies an income entry's fee.
type FeeType string

const (
	FeeRegistration FeeType = "Registration"
	FeeServices     FeeType = "Services"
	FeeFerry        FeeType = "Ferry"
	FeeHostel       FeeType = "Hostel"
	FeePromotion    FeeType = "Promotion"
)

// FeeTypes returns the known fee types.
func FeeTypes() []FeeType {
	return []FeeType{FeeRegistration, FeeServices, FeeFerry, FeeHostel, FeePromotion}
}

// AutoPriced reports whether the fee amount is looked up from the rules
// table. Everything else is typed by the user.
func (f FeeType) AutoPriced() bool {
	return f == FeeRegistration || f == FeeServices
}

// ParseFeeType maps free text to a FeeType; unknown input yields the zero value.
func ParseFeeType(s string) FeeType {
	for _, f := range FeeTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f
		}
	}
	return ""
}

// Entry is one row in a ledger book. A single shape serves every book; the
// income-only fields stay empty elsewhere. ID is assigned by the store on
// first save; uuid.Nil means the record was never persisted and must not be
// edited or deleted against the store.
type Entry struct {
	ID           uuid.UUID
	Book         Book
	Date         time.Time
	VoucherNo    string
	AccountHead  string
	AccountClass string
	Description  string
	Method       Method
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Transfer     TransferTag

	// Income book only.
	InvoiceNo string
	Name      string
	Gender    string
	FeeType   FeeType
	AutoFee   decimal.Decimal

	// EntryDate is the creation/import timestamp, distinct from Date.
	EntryDate time.Time
}

// FiscalYear derives the "FY YY-YY" label from Date. The label is never
// persisted; this is the single source of truth.
func (e Entry) FiscalYear() string {
	return fiscal.Label(e.Date)
}

// EffectiveMethod returns the entry's channel, falling back to the book's
// implied channel when the field is empty.
func (e Entry) EffectiveMethod() Method {
	if e.Method != "" {
		return e.Method
	}
	return e.Book.DefaultMethod()
}

// Persisted reports whether the store has assigned an id.
func (e Entry) Persisted() bool { return e.ID != uuid.Nil }

// Field reads a named business field as a string. Unknown names read as ""
// so filtering over heterogeneous books never panics.
func (e Entry) Field(name string) string {
	switch name {
	case "book":
		return string(e.Book)
	case "date":
		if e.Date.IsZero() {
			return ""
		}
		return e.Date.Format("2006-01-02")
	case "fy":
		return e.FiscalYear()
	case "voucherNo":
		return e.VoucherNo
	case "accountHead":
		return e.AccountHead
	case "accountClass":
		return e.AccountClass
	case "description":
		return e.Description
	case "method":
		return string(e.EffectiveMethod())
	case "debit":
		return formatAmount(e.Debit)
	case "credit":
		return formatAmount(e.Credit)
	case "transfer":
		if e.Transfer == TagNone {
			return ""
		}
		return string(e.Transfer)
	case "invoiceNo":
		return e.InvoiceNo
	case "name":
		return e.Name
	case "gender":
		return e.Gender
	case "feeType":
		return string(e.FeeType)
	case "autoFee":
		return formatAmount(e.AutoFee)
	}
	return ""
}

func formatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// Rule is one fee-schedule row, keyed by (AccountHead, AccountClass).
type Rule struct {
	ID              uuid.UUID
	AccountHead     string
	AccountClass    string
	RegistrationFee decimal.Decimal
	ServicesFee     decimal.Decimal
	PromotionFee    decimal.Decimal
	Date            time.Time
	Remark          string
}

// FiscalYear derives the rule's FY label from its versioning date.
func (r Rule) FiscalYear() string { return fiscal.Label(r.Date) }

// Customer is one registry row. CustomID is a per-FY "ID-NNNN" sequence.
type Customer struct {
	ID           uuid.UUID
	CustomID     string
	AccountHead  string
	AccountClass string
	Gender       string
	Name         string
	EntryDate    time.Time
}

// DisplayName combines class, gender initial and name for list views.
func (c Customer) DisplayName() string {
	parts := make([]string, 0, 3)
	if c.AccountClass != "" {
		parts = append(parts, c.AccountClass)
	}
	if c.Gender != "" {
		parts = append(parts, "("+strings.ToUpper(c.Gender[:1])+")")
	}
	if c.Name != "" {
		parts = append(parts, c.Name)
	}
	return strings.Join(parts, " ")
}
