package calculation

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/pkg/money"
)

// RATE TABLE ASSUMPTIONS:
//
// 1. Average savings rates: DNB household deposit averages per calendar
//    year. Used only to estimate missing bank interest. The same flat rate
//    applies regardless of account currency or country; foreign accounts
//    get no separate table.
//
// 2. Box 3 tax rates: statutory rate on the deemed return per year.
//    Years outside the table fall back to 31%.
//
// 3. Both tables can be overridden from configuration; the built-ins below
//    are the values shipped with the binary.

// RateTable maps a tax year to a rate.
type RateTable map[int]decimal.Decimal

// RateLookup is the result of a table lookup. Found is false when the year
// was absent and the fallback rate was used, so callers can surface the
// fallback instead of hiding it in an inline default.
type RateLookup struct {
	Year  int
	Rate  decimal.Decimal
	Found bool
}

// Lookup resolves the rate for a year, falling back to the given default.
func (t RateTable) Lookup(year int, fallback decimal.Decimal) RateLookup {
	if rate, ok := t[year]; ok {
		return RateLookup{Year: year, Rate: rate, Found: true}
	}
	return RateLookup{Year: year, Rate: fallback, Found: false}
}

// Years returns the table's years, ascending.
func (t RateTable) Years() []int {
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// RateTableFromFloats builds a table from config values keyed by year
// strings. Unparseable keys are dropped.
func RateTableFromFloats(values map[string]float64) RateTable {
	table := make(RateTable, len(values))
	for key, rate := range values {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		table[year] = decimal.NewFromFloat(rate)
	}
	return table
}

// DefaultAverageSavingsRates is the shipped average-savings-rate table.
func DefaultAverageSavingsRates() RateTable {
	return RateTable{
		2017: decimal.NewFromFloat(0.0027),
		2018: decimal.NewFromFloat(0.0015),
		2019: decimal.NewFromFloat(0.0008),
		2020: decimal.NewFromFloat(0.0004),
		2021: decimal.NewFromFloat(0.0001),
		2022: decimal.NewFromFloat(0.0005),
		2023: decimal.NewFromFloat(0.0092),
		2024: decimal.NewFromFloat(0.0134),
	}
}

// DefaultBox3TaxRates is the shipped Box 3 tax-rate table.
func DefaultBox3TaxRates() RateTable {
	return RateTable{
		2017: decimal.NewFromFloat(0.30),
		2018: decimal.NewFromFloat(0.30),
		2019: decimal.NewFromFloat(0.30),
		2020: decimal.NewFromFloat(0.30),
		2021: decimal.NewFromFloat(0.31),
		2022: decimal.NewFromFloat(0.31),
		2023: decimal.NewFromFloat(0.32),
		2024: decimal.NewFromFloat(0.36),
		2025: decimal.NewFromFloat(0.36),
	}
}

// FallbackSavingsRate applies when a year is missing from the savings table.
func FallbackSavingsRate() decimal.Decimal { return decimal.NewFromFloat(0.001) }

// FallbackTaxRate applies when a year is missing from the tax-rate table.
func FallbackTaxRate() decimal.Decimal { return decimal.NewFromFloat(0.31) }

// DefaultCostPerYear is the advisory fee charged per assessed tax year.
func DefaultCostPerYear() money.Money { return money.NewFromInt(250) }
