package books

// OptionDef is one selectable value for a categorical entry field.
type OptionDef struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Curated option sets per book. These mirror the dropdowns of the capture
// screens; imports accept them case-sensitively.
var headsByBook = map[Book][]OptionDef{
	BookBank: {
		{Code: "Deposit", Label: "Deposit"},
		{Code: "Withdrawal", Label: "Withdrawal"},
		{Code: "Transfer", Label: "Transfer"},
		{Code: "Fees", Label: "Fees"},
		{Code: "Interest", Label: "Interest"},
	},
	BookCash: {
		{Code: "Receipt", Label: "Receipt"},
		{Code: "Payment", Label: "Payment"},
		{Code: "Transfer", Label: "Transfer"},
		{Code: "Fees", Label: "Fees"},
	},
	BookIncome: {
		{Code: "Boarder", Label: "Boarder"},
		{Code: "Day Scholar", Label: "Day Scholar"},
		{Code: "Hostel", Label: "Hostel"},
	},
	BookOffice: {
		{Code: "Stationery", Label: "Stationery"},
		{Code: "Utilities", Label: "Utilities"},
		{Code: "Repairs", Label: "Repairs"},
		{Code: "Travel", Label: "Travel"},
		{Code: "Misc", Label: "Miscellaneous"},
	},
	BookSalary: {
		{Code: "Teaching Staff", Label: "Teaching Staff"},
		{Code: "Office Staff", Label: "Office Staff"},
		{Code: "Kitchen Staff", Label: "Kitchen Staff"},
	},
	BookKitchen: {
		{Code: "Groceries", Label: "Groceries"},
		{Code: "Meat", Label: "Meat"},
		{Code: "Vegetables", Label: "Vegetables"},
		{Code: "Fuel", Label: "Fuel"},
	},
}

var classes = []OptionDef{
	{Code: "KG", Label: "Kindergarten"},
	{Code: "G_1", Label: "Grade 1"},
	{Code: "G_2", Label: "Grade 2"},
	{Code: "G_3", Label: "Grade 3"},
	{Code: "G_4", Label: "Grade 4"},
	{Code: "G_5", Label: "Grade 5"},
	{Code: "G_6", Label: "Grade 6"},
	{Code: "G_7", Label: "Grade 7"},
	{Code: "G_8", Label: "Grade 8"},
	{Code: "G_9", Label: "Grade 9"},
	{Code: "G_10", Label: "Grade 10"},
}

// HeadsFor returns the account-head options for a book.
func HeadsFor(b Book) []OptionDef { return headsByBook[b] }

// Classes returns the account-class (grade) options shared by the Income
// book, the Customer registry and the Rules table.
func Classes() []OptionDef { return classes }

// IsKnownHead reports whether code is a curated account head for the book.
func IsKnownHead(b Book, code string) bool {
	for _, o := range headsByBook[b] {
		if o.Code == code {
			return true
		}
	}
	return false
}

// IsKnownClass reports whether code is a curated class.
func IsKnownClass(code string) bool {
	for _, o := range classes {
		if o.Code == code {
			return true
		}
	}
	return false
}
