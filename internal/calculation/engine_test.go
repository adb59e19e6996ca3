package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/box3check/box3-engine/internal/domain"
)

func testEngineConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.SavingsRates = RateTable{2021: decimal.NewFromFloat(0.0012)}
	cfg.TaxRates = RateTable{
		2021: decimal.NewFromFloat(0.5),
		2022: decimal.NewFromFloat(0.5),
	}
	return cfg
}

func yearData(deemed float64, taxpayerPct, partnerPct float64) domain.TaxAuthorityData {
	return domain.TaxAuthorityData{
		HouseholdTotals: domain.HouseholdTotals{DeemedReturn: amt(deemed)},
		PerPerson: map[string]domain.PersonAssessment{
			"tp-1": {AllocationPercentage: amt(taxpayerPct)},
			"fp-1": {AllocationPercentage: amt(partnerPct)},
		},
	}
}

// TestAssessTwoYearDossier runs the full pipeline over a two-year partnered
// dossier: year refunds 500 and 800, filed 60/40 split in 2021, implausible
// 0/100 split in 2022 (falls back to 50/50), 250 cost per year.
func TestAssessTwoYearDossier(t *testing.T) {
	engine := NewEngineWithConfig(testEngineConfig())

	bp := &domain.Blueprint{
		DossierID:    "D-2024-0001",
		FiscalEntity: partneredEntity(),
		TaxYears:     []int{2021, 2022},
		TaxAuthority: map[int]domain.TaxAuthorityData{
			2021: yearData(1000, 60, 40),
			2022: yearData(1600, 0, 100),
		},
	}

	assessment, err := engine.Assess(context.Background(), bp)
	require.NoError(t, err)
	require.Len(t, assessment.Years, 2)

	y2021, y2022 := assessment.Years[0], assessment.Years[1]

	// deemed 1000 * 0.5 = 500, filed 60/40
	assert.Equal(t, "€500.00", y2021.CalculatedTotals.IndicativeRefund.String())
	assert.Equal(t, domain.StatusComplete, y2021.Status)
	assert.False(t, y2021.AllocationFallback)
	assert.Equal(t, "€300.00", y2021.PersonRefunds["tp-1"].String())
	assert.Equal(t, "€200.00", y2021.PersonRefunds["fp-1"].String())

	// deemed 1600 * 0.5 = 800, 0/100 implausible so 50/50
	assert.Equal(t, "€800.00", y2022.CalculatedTotals.IndicativeRefund.String())
	assert.True(t, y2022.AllocationFallback)
	assert.Equal(t, "€400.00", y2022.PersonRefunds["tp-1"].String())
	assert.Equal(t, "€400.00", y2022.PersonRefunds["fp-1"].String())

	// household: gross 1300, cost 2*250, net 800
	assert.Equal(t, "€1300.00", assessment.Household.GrossRefund.String())
	assert.Equal(t, "€500.00", assessment.Household.TotalCost.String())
	assert.Equal(t, "€800.00", assessment.Household.NetRefund.String())
	assert.Equal(t, 2, assessment.Household.YearsCounted)
	assert.True(t, assessment.Household.IsProfitable)
	assert.False(t, assessment.Household.Estimated)

	// per person accumulation across years
	require.Len(t, assessment.Persons, 2)
	taxpayer, partner := assessment.Persons[0], assessment.Persons[1]
	assert.Equal(t, "tp-1", taxpayer.PersonID)
	assert.Equal(t, "€700.00", taxpayer.TotalRefund.String())
	assert.True(t, taxpayer.IsProfitable)
	assert.Equal(t, "60", taxpayer.AllocationUsed[2021].String())
	assert.Equal(t, "50", taxpayer.AllocationUsed[2022].String())
	assert.Equal(t, "€600.00", partner.TotalRefund.String())

	// profitable dossier with partner: two objections
	assert.Equal(t, domain.ActionFileObjection, assessment.NextStep.Action)
	assert.Equal(t, 2, assessment.NextStep.ObjectionCount)
	assert.NotEmpty(t, assessment.Assumptions)
}

// TestAssessEstimatedInterest checks the estimation path end to end:
// a bank balance without recorded interest marks the year and the
// household outcome as estimated.
func TestAssessEstimatedInterest(t *testing.T) {
	engine := NewEngineWithConfig(testEngineConfig())

	bp := &domain.Blueprint{
		DossierID: "D-2024-0002",
		FiscalEntity: domain.FiscalEntity{
			Taxpayer: domain.Person{ID: "tp-1", Name: "J. de Vries"},
		},
		TaxYears: []int{2021},
		BankAccounts: []domain.Asset{
			{
				ID:      "bank-1",
				OwnerID: "tp-1",
				YearlyData: map[int]domain.YearlyFigures{
					2021: {ValueJan1: amt(10000)},
				},
			},
		},
		TaxAuthority: map[int]domain.TaxAuthorityData{
			2021: {HouseholdTotals: domain.HouseholdTotals{DeemedReturn: amt(1000)}},
		},
	}

	assessment, err := engine.Assess(context.Background(), bp)
	require.NoError(t, err)

	year := assessment.Years[0]
	// estimated interest 10000 * 0.0012 = 12, refund (1000-12) * 0.5 = 494
	assert.Equal(t, "€12.00", year.CalculatedTotals.ActualReturn.BankInterest.String())
	assert.True(t, year.CalculatedTotals.ActualReturn.InterestEstimated)
	assert.Equal(t, "€494.00", year.CalculatedTotals.IndicativeRefund.String())
	assert.Equal(t, domain.StatusReadyForCalculation, year.Status)
	assert.True(t, assessment.Household.Estimated)

	// no partner: full refund to the taxpayer, one objection
	assert.Equal(t, "€494.00", year.PersonRefunds["tp-1"].String())
	assert.Equal(t, domain.ActionFileObjection, assessment.NextStep.Action)
	assert.Equal(t, 1, assessment.NextStep.ObjectionCount)
}

func TestAssessIncompleteYear(t *testing.T) {
	engine := NewEngineWithConfig(testEngineConfig())

	bp := &domain.Blueprint{
		DossierID: "D-2024-0003",
		FiscalEntity: domain.FiscalEntity{
			Taxpayer: domain.Person{ID: "tp-1"},
		},
		TaxYears: []int{2021},
	}

	assessment, err := engine.Assess(context.Background(), bp)
	require.NoError(t, err)

	year := assessment.Years[0]
	assert.Equal(t, domain.StatusIncomplete, year.Status)
	assert.True(t, year.CalculatedTotals.IndicativeRefund.IsZero())
	assert.False(t, assessment.Household.IsProfitable)
	assert.Equal(t, domain.ActionAwaitClientInfo, assessment.NextStep.Action)
}

func TestAssessMissingDocumentsOutrankProfit(t *testing.T) {
	engine := NewEngineWithConfig(testEngineConfig())

	bp := &domain.Blueprint{
		DossierID: "D-2024-0004",
		FiscalEntity: domain.FiscalEntity{
			Taxpayer: domain.Person{ID: "tp-1"},
		},
		TaxYears: []int{2021},
		Investments: []domain.Asset{
			{
				ID:      "inv-1",
				OwnerID: "tp-1",
				YearlyData: map[int]domain.YearlyFigures{
					2021: {ValueJan1: amt(40000)},
				},
			},
		},
		TaxAuthority: map[int]domain.TaxAuthorityData{
			2021: {HouseholdTotals: domain.HouseholdTotals{DeemedReturn: amt(2000)}},
		},
	}

	assessment, err := engine.Assess(context.Background(), bp)
	require.NoError(t, err)

	assert.True(t, assessment.Household.IsProfitable)
	assert.Equal(t, 1, assessment.MissingItemCount())
	assert.Equal(t, domain.ActionRequestDocuments, assessment.NextStep.Action)
}

func TestAssessCostOverride(t *testing.T) {
	engine := NewEngineWithConfig(testEngineConfig())
	override := decimal.NewFromInt(100)

	bp := &domain.Blueprint{
		DossierID: "D-2024-0005",
		FiscalEntity: domain.FiscalEntity{
			Taxpayer: domain.Person{ID: "tp-1"},
		},
		TaxYears: []int{2021, 2022},
		TaxAuthority: map[int]domain.TaxAuthorityData{
			2021: {HouseholdTotals: domain.HouseholdTotals{DeemedReturn: amt(1000)}},
			2022: {HouseholdTotals: domain.HouseholdTotals{DeemedReturn: amt(1600)}},
		},
		Overrides: &domain.ManualOverrides{CostPerYear: &override},
	}

	assessment, err := engine.Assess(context.Background(), bp)
	require.NoError(t, err)

	assert.Equal(t, "€100.00", assessment.Household.CostPerYear.String())
	assert.Equal(t, "€200.00", assessment.Household.TotalCost.String())
	assert.Equal(t, "€1100.00", assessment.Household.NetRefund.String())
}

func TestAssessNilBlueprint(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Assess(context.Background(), nil)
	assert.Error(t, err)
}

func TestAssessCancelledContext(t *testing.T) {
	engine := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Assess(ctx, &domain.Blueprint{})
	assert.ErrorIs(t, err, context.Canceled)
}
