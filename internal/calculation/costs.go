package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/pkg/money"
)

// CostCalculator nets the fixed per-year advisory fee off the gross refund.
type CostCalculator struct {
	CostPerYear money.Money
}

// NewCostCalculator creates a cost calculator with the given per-year fee.
func NewCostCalculator(costPerYear money.Money) *CostCalculator {
	return &CostCalculator{CostPerYear: costPerYear}
}

// Net returns the total advisory cost for the assessed years and the net
// refund. The net refund may be negative; callers must show gross and net
// separately together with the per-year multiplier.
func (cc *CostCalculator) Net(gross money.Money, yearsCount int) (totalCost, net money.Money) {
	totalCost = cc.CostPerYear.Mul(decimal.NewFromInt(int64(yearsCount)))
	net = gross.Sub(totalCost)
	return totalCost, net
}
