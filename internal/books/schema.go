package books

// Columns returns the fixed tabular column set for a book, in the exact
// order files are exported and import headers are checked against.
func Columns(b Book) []string {
	switch b {
	case BookBank, BookCash:
		return []string{"Date", "FY", "VR No", "A/C Head", "A/C Name", "Description", "Method", "Debit", "Credit", "Transfer", "Entry Date"}
	case BookOffice:
		return []string{"Date", "FY", "VR No", "A/C Head", "A/C Name", "Description", "Method", "Debit", "Credit", "Entry Date"}
	case BookSalary, BookKitchen:
		return []string{"Date", "FY", "VR No", "A/C Head", "A/C Name", "Description", "Method", "Credit", "Entry Date"}
	case BookIncome:
		return []string{"Date", "FY", "Invoice No", "A/C Head", "A/C Name", "Name", "Gender", "Fee Type", "Auto Fee", "Credit", "Method", "Description", "Entry Date"}
	}
	return nil
}

// CustomerColumns is the tabular column set for the customer registry.
func CustomerColumns() []string {
	return []string{"Custom ID", "A/C Head", "A/C Name", "Gender", "Name", "Entry Date"}
}

// RuleColumns is the tabular column set for the rules table.
func RuleColumns() []string {
	return []string{"Date", "FY", "A/C Head", "A/C Name", "Registration Fee", "Services Fee", "Promotion Fee", "Remark"}
}
