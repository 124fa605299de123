// Package rules resolves auto-fee amounts against the fee-schedule table.
package rules

import (
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
)

// Resolve looks up the fee amount for (accountHead, accountClass, feeType)
// against a rules snapshot. ok is false when the fee type is not auto-priced
// or no rule matches; both are normal outcomes meaning "user enters the
// amount manually", not errors.
//
// Lookup is exact-match and first match wins, mirroring how the capture
// screens scan the table.
func Resolve(snapshot []books.Rule, accountHead, accountClass string, feeType books.FeeType) (decimal.Decimal, bool) {
	if !feeType.AutoPriced() {
		return decimal.Zero, false
	}
	for _, r := range snapshot {
		if r.AccountHead != accountHead || r.AccountClass != accountClass {
			continue
		}
		switch feeType {
		case books.FeeRegistration:
			return r.RegistrationFee, true
		case books.FeeServices:
			return r.ServicesFee, true
		}
	}
	return decimal.Zero, false
}
