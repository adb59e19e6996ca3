package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/internal/domain"
	"github.com/box3check/box3-engine/pkg/money"
)

// AllocationPolicy bounds what counts as a plausible partner allocation.
// The thresholds are heuristics, not law, so they stay configurable.
type AllocationPolicy struct {
	// SumTolerance: both percentages must sum to 100 within this margin.
	SumTolerance decimal.Decimal
	// MinShare / MaxShare: each percentage must lie strictly inside this
	// band to be trusted.
	MinShare decimal.Decimal
	MaxShare decimal.Decimal
}

// DefaultAllocationPolicy returns the shipped plausibility bounds.
func DefaultAllocationPolicy() AllocationPolicy {
	return AllocationPolicy{
		SumTolerance: decimal.NewFromInt(5),
		MinShare:     decimal.NewFromInt(5),
		MaxShare:     decimal.NewFromInt(95),
	}
}

// plausible checks one percentage against the band.
func (p AllocationPolicy) plausible(share decimal.Decimal) bool {
	return share.GreaterThan(p.MinShare) && share.LessThan(p.MaxShare)
}

// YearSplit is the outcome of allocating one year's refund across persons.
type YearSplit struct {
	Refunds     map[string]money.Money
	Percentages map[string]decimal.Decimal
	// Fallback is set when the filed allocation was absent or implausible
	// and the default split was applied.
	Fallback bool
}

// PersonAllocator splits a year's refund between taxpayer and fiscal
// partner using the allocation percentages from the tax-authority data.
// Implausible data is discarded in favor of the default split; that is a
// design choice, logged at debug level, never an error.
type PersonAllocator struct {
	Policy AllocationPolicy
	Logger Logger
}

// NewPersonAllocator creates an allocator with the given policy.
func NewPersonAllocator(policy AllocationPolicy, logger Logger) *PersonAllocator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &PersonAllocator{Policy: policy, Logger: logger}
}

// SplitYear allocates total across the household's persons for one year.
// The partner's share is computed as the remainder, so the per-person
// refunds always partition the year total exactly.
func (pa *PersonAllocator) SplitYear(year int, total money.Money, entity domain.FiscalEntity, taxData *domain.TaxAuthorityData) YearSplit {
	taxpayerID := entity.Taxpayer.ID

	if !entity.HasPartner() {
		return YearSplit{
			Refunds:     map[string]money.Money{taxpayerID: total},
			Percentages: map[string]decimal.Decimal{taxpayerID: decimal.NewFromInt(100)},
		}
	}

	partnerID := entity.FiscalPartner.ID
	taxpayerShare, partnerShare, ok := pa.filedShares(year, taxpayerID, partnerID, taxData)
	fallback := !ok
	if fallback {
		taxpayerShare = decimal.NewFromInt(50)
		partnerShare = decimal.NewFromInt(50)
	}

	taxpayerRefund := total.Pct(taxpayerShare).Round()
	partnerRefund := total.Sub(taxpayerRefund)

	return YearSplit{
		Refunds: map[string]money.Money{
			taxpayerID: taxpayerRefund,
			partnerID:  partnerRefund,
		},
		Percentages: map[string]decimal.Decimal{
			taxpayerID: taxpayerShare,
			partnerID:  partnerShare,
		},
		Fallback: fallback,
	}
}

// filedShares reads and validates the allocation percentages from the
// assessment data. Both must be present, lie inside the plausibility band
// and sum to 100 within tolerance.
func (pa *PersonAllocator) filedShares(year int, taxpayerID, partnerID string, taxData *domain.TaxAuthorityData) (taxpayer, partner decimal.Decimal, ok bool) {
	if taxData == nil || taxData.PerPerson == nil {
		return decimal.Zero, decimal.Zero, false
	}

	taxpayerShare, ok1 := taxData.PerPerson[taxpayerID].AllocationPercentage.Value()
	partnerShare, ok2 := taxData.PerPerson[partnerID].AllocationPercentage.Value()
	if !ok1 || !ok2 {
		pa.Logger.Debugf("verdeling %d: percentages onvolledig, standaardverdeling toegepast", year)
		return decimal.Zero, decimal.Zero, false
	}

	if !pa.Policy.plausible(taxpayerShare) || !pa.Policy.plausible(partnerShare) {
		pa.Logger.Debugf("verdeling %d: %s/%s buiten bandbreedte, standaardverdeling toegepast",
			year, taxpayerShare.String(), partnerShare.String())
		return decimal.Zero, decimal.Zero, false
	}

	sum := taxpayerShare.Add(partnerShare)
	deviation := sum.Sub(decimal.NewFromInt(100)).Abs()
	if deviation.GreaterThan(pa.Policy.SumTolerance) {
		pa.Logger.Debugf("verdeling %d: som %s wijkt te ver af van 100, standaardverdeling toegepast",
			year, sum.String())
		return decimal.Zero, decimal.Zero, false
	}

	return taxpayerShare, partnerShare, true
}
