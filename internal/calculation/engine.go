package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/internal/domain"
	"github.com/box3check/box3-engine/pkg/money"
)

// EngineConfig bundles the tunable inputs of the calculation.
type EngineConfig struct {
	SavingsRates        RateTable
	TaxRates            RateTable
	FallbackSavingsRate decimal.Decimal
	FallbackTaxRate     decimal.Decimal
	CostPerYear         money.Money
	Allocation          AllocationPolicy
}

// DefaultEngineConfig returns the shipped tables and thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SavingsRates:        DefaultAverageSavingsRates(),
		TaxRates:            DefaultBox3TaxRates(),
		FallbackSavingsRate: FallbackSavingsRate(),
		FallbackTaxRate:     FallbackTaxRate(),
		CostPerYear:         DefaultCostPerYear(),
		Allocation:          DefaultAllocationPolicy(),
	}
}

// Engine orchestrates the per-year profitability calculation for a dossier.
// All computation is pure; absent data degrades to zero contributions
// instead of errors.
type Engine struct {
	Estimator  *ReturnEstimator
	Comparator *RefundComparator
	Allocator  *PersonAllocator
	Costs      *CostCalculator
	Logger     Logger

	config EngineConfig
}

// NewEngine creates an engine with the shipped configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig())
}

// NewEngineWithConfig creates an engine with custom tables and thresholds.
func NewEngineWithConfig(cfg EngineConfig) *Engine {
	logger := NopLogger{}
	return &Engine{
		Estimator:  NewReturnEstimator(cfg.SavingsRates, cfg.FallbackSavingsRate, logger),
		Comparator: NewRefundComparator(cfg.TaxRates, cfg.FallbackTaxRate, logger),
		Allocator:  NewPersonAllocator(cfg.Allocation, logger),
		Costs:      NewCostCalculator(cfg.CostPerYear),
		Logger:     logger,
		config:     cfg,
	}
}

// SetLogger sets the logger for the engine and its sub-calculators. If nil
// is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Estimator.Logger = l
	e.Comparator.Logger = l
	e.Allocator.Logger = l
}

// Assess runs the complete profitability calculation for a dossier:
// per-year actual-return estimation, deemed-return comparison, partner
// allocation, cost netting and next-step classification.
func (e *Engine) Assess(ctx context.Context, bp *domain.Blueprint) (*domain.DossierAssessment, error) {
	if bp == nil {
		return nil, fmt.Errorf("no blueprint provided")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	costPerYear := e.Costs.CostPerYear
	if bp.Overrides != nil && bp.Overrides.CostPerYear != nil {
		costPerYear = money.NewFromDecimal(*bp.Overrides.CostPerYear)
		e.Logger.Infof("advieskosten per jaar handmatig overschreven naar %s", costPerYear.String())
	}

	years := bp.DeclaredYears()
	summaries := make([]domain.YearSummary, 0, len(years))

	gross := money.Zero()
	estimated := false
	personTotals := map[string]money.Money{}
	personAllocs := map[string]map[int]decimal.Decimal{}
	for _, id := range bp.FiscalEntity.PersonIDs() {
		personTotals[id] = money.Zero()
		personAllocs[id] = map[int]decimal.Decimal{}
	}

	for _, year := range years {
		summary := e.assessYear(year, bp)
		summaries = append(summaries, summary)

		gross = gross.Add(summary.CalculatedTotals.IndicativeRefund)
		estimated = estimated || summary.CalculatedTotals.Estimated

		for id, refund := range summary.PersonRefunds {
			personTotals[id] = personTotals[id].Add(refund)
		}
		for id, pct := range summary.AllocationUsed {
			if _, ok := personAllocs[id]; ok {
				personAllocs[id][year] = pct
			}
		}
	}

	totalCost, net := NewCostCalculator(costPerYear).Net(gross, len(years))
	household := domain.HouseholdOutcome{
		GrossRefund:  gross.Round(),
		CostPerYear:  costPerYear,
		YearsCounted: len(years),
		TotalCost:    totalCost.Round(),
		NetRefund:    net.Round(),
		IsProfitable: gross.IsPositive(),
		Estimated:    estimated,
	}

	persons := make([]domain.PersonOutcome, 0, 2)
	persons = append(persons, e.personOutcome(bp.FiscalEntity.Taxpayer, personTotals, personAllocs))
	if bp.FiscalEntity.HasPartner() {
		persons = append(persons, e.personOutcome(*bp.FiscalEntity.FiscalPartner, personTotals, personAllocs))
	}

	assessment := &domain.DossierAssessment{
		DossierID:   bp.DossierID,
		GeneratedAt: time.Now().UTC(),
		Years:       summaries,
		Persons:     persons,
		Household:   household,
		NextStep:    ClassifyNextStep(summaries, household, bp.FiscalEntity.HasPartner()),
		Assumptions: e.assumptions(costPerYear),
	}

	e.Logger.Infof("dossier %s: bruto %s, netto %s, actie %s",
		bp.DossierID, household.GrossRefund.String(), household.NetRefund.String(), assessment.NextStep.Action)

	return assessment, nil
}

// assessYear builds the complete summary for a single tax year.
func (e *Engine) assessYear(year int, bp *domain.Blueprint) domain.YearSummary {
	actual, missing := e.Estimator.EstimateYear(year, bp)
	totalAssets := e.Estimator.TotalAssetsJan1(year, bp)

	taxData, hasTaxData := bp.TaxAuthority[year]
	deemedValue, deemedKnown := decimal.Zero, false
	if hasTaxData {
		deemedValue, deemedKnown = taxData.HouseholdTotals.DeemedReturn.Value()
	}

	if !deemedKnown {
		// Without an assessment there is nothing to compare against; the
		// year reports zero refund and waits for more data.
		e.Logger.Debugf("jaar %d: geen aanslaggegevens, berekening overgeslagen", year)
		return domain.YearSummary{
			Year:   year,
			Status: domain.StatusIncomplete,
			CalculatedTotals: domain.CalculatedTotals{
				TotalAssets:      totalAssets,
				ActualReturn:     actual,
				IndicativeRefund: money.Zero(),
				Estimated:        actual.InterestEstimated,
			},
			MissingItems: missing,
		}
	}

	totals := e.Comparator.CompareYear(year, money.NewFromDecimal(deemedValue), actual)
	totals.TotalAssets = totalAssets

	split := e.Allocator.SplitYear(year, totals.IndicativeRefund, bp.FiscalEntity, &taxData)

	status := domain.StatusComplete
	if len(missing) > 0 || totals.Estimated {
		status = domain.StatusReadyForCalculation
	}

	return domain.YearSummary{
		Year:               year,
		Status:             status,
		CalculatedTotals:   totals,
		MissingItems:       missing,
		PersonRefunds:      split.Refunds,
		AllocationUsed:     split.Percentages,
		AllocationFallback: split.Fallback,
	}
}

// personOutcome folds the accumulated per-year figures into one person.
func (e *Engine) personOutcome(p domain.Person, totals map[string]money.Money, allocs map[string]map[int]decimal.Decimal) domain.PersonOutcome {
	total := totals[p.ID]
	return domain.PersonOutcome{
		PersonID:       p.ID,
		Name:           p.Name,
		TotalRefund:    total.Round(),
		IsProfitable:   total.IsPositive(),
		AllocationUsed: allocs[p.ID],
	}
}

// assumptions lists the configuration the assessment depends on, in the
// report's own words.
func (e *Engine) assumptions(costPerYear money.Money) []string {
	return []string{
		fmt.Sprintf("Advieskosten: %s per belastingjaar", costPerYear.String()),
		fmt.Sprintf("Terugval box 3-tarief voor onbekende jaren: %s%%",
			e.config.FallbackTaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0)),
		fmt.Sprintf("Terugval spaarrente voor onbekende jaren: %s%%",
			e.config.FallbackSavingsRate.Mul(decimal.NewFromInt(100)).StringFixed(2)),
		"Ontbrekende rente geschat via gemiddelde spaarrente per jaar, ongeacht land of valuta van de rekening",
		fmt.Sprintf("Verdeling fiscale partners: som 100 ± %s, aandeel tussen %s en %s procent, anders standaardverdeling",
			e.config.Allocation.SumTolerance.String(), e.config.Allocation.MinShare.String(), e.config.Allocation.MaxShare.String()),
	}
}
