// Package exchange converts EUR amounts to RON. The default converter
// applies a fixed multiplier; a converter backed by the BNR feed
// configured in system settings can be dropped in without touching
// callers.
package exchange

import (
	"github.com/shopspring/decimal"
)

// Converter turns a EUR amount into RON
type Converter interface {
	EURToRON(amount decimal.Decimal) decimal.Decimal
}

// FixedRate converts with a constant multiplier.
// TODO: implement a converter backed by the BNR XML feed
// (bnr_exchange_rate_url system setting) and use it as the default.
type FixedRate struct {
	Rate decimal.Decimal
}

// NewFixedRate creates a FixedRate converter. An empty rate string
// falls back to the historical placeholder of 5.
func NewFixedRate(rate string) (*FixedRate, error) {
	if rate == "" {
		return &FixedRate{Rate: decimal.NewFromInt(5)}, nil
	}
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	return &FixedRate{Rate: d}, nil
}

// EURToRON multiplies the amount by the fixed rate
func (f *FixedRate) EURToRON(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(f.Rate)
}
