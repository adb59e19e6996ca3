package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	dutchPrinter = message.NewPrinter(language.Dutch)
	hundred      = decimal.NewFromInt(100)
)

// FormatEUR formats an amount as euro currency in Dutch notation with 2
// decimals, e.g. "€ 1.234,56".
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatEUR(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return dutchPrinter.Sprintf("€ %v", number.Decimal(f, number.Scale(2)))
}

// FormatPercentage formats a decimal (0-100 scale) as a percentage with 1 decimal.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(1) + "%"
}
