package receipt

import "github.com/shopspring/decimal"

// Policy fixes how tax is applied to a sale. The tax-inclusive amount is
// canonical: payment validation, change and the receipt TOTAL all use
// AmountDue, so the figures can never disagree with each other. A zero rate
// gives the tax-free variant.
type Policy struct {
	TaxRate decimal.Decimal
}

// DefaultPolicy applies the flat 7% tax add-on.
func DefaultPolicy() Policy {
	return Policy{TaxRate: decimal.NewFromFloat(0.07)}
}

// Tax returns the tax amount for a subtotal, rounded to satang.
func (p Policy) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(2)
}

// AmountDue returns the full amount the customer owes: subtotal plus tax.
func (p Policy) AmountDue(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(p.Tax(subtotal))
}

// RatePercent renders the rate for display, e.g. "7" for a 0.07 rate.
func (p Policy) RatePercent() string {
	return p.TaxRate.Mul(decimal.NewFromInt(100)).String()
}
