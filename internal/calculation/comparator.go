package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/internal/domain"
	"github.com/box3check/box3-engine/pkg/money"
)

// RefundComparator turns the gap between the deemed return and the actual
// return into an indicative refund for one tax year.
type RefundComparator struct {
	TaxRates     RateTable
	FallbackRate decimal.Decimal
	Logger       Logger
}

// NewRefundComparator creates a comparator with the given tax-rate table.
func NewRefundComparator(rates RateTable, fallback decimal.Decimal, logger Logger) *RefundComparator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &RefundComparator{TaxRates: rates, FallbackRate: fallback, Logger: logger}
}

// CompareYear computes difference, refund and profitability for a year.
// The difference may be negative (actual return exceeded the deemed
// return); the refund is floored at zero. The estimated flag on the actual
// return propagates to the refund.
func (rc *RefundComparator) CompareYear(year int, deemed money.Money, actual domain.ActualReturn) domain.CalculatedTotals {
	lookup := rc.TaxRates.Lookup(year, rc.FallbackRate)
	if !lookup.Found {
		rc.Logger.Debugf("geen box 3-tarief voor %d in tabel, terugval op %s", year, lookup.Rate.String())
	}

	difference := deemed.Sub(actual.Total)
	refund := difference.Mul(lookup.Rate).FloorZero().Round()

	return domain.CalculatedTotals{
		DeemedReturn:     deemed,
		ActualReturn:     actual,
		Difference:       difference.Round(),
		IndicativeRefund: refund,
		TaxRate:          lookup.Rate,
		Estimated:        actual.InterestEstimated,
		IsProfitable:     refund.IsPositive(),
	}
}
