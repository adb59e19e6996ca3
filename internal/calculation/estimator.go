package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/internal/domain"
	"github.com/box3check/box3-engine/pkg/money"
)

// ReturnEstimator derives the best-effort actual return for one tax year
// from the dossier's asset collections. Known income figures are summed;
// missing bank interest is estimated from the average savings rate of the
// year, which marks the whole year as estimated.
type ReturnEstimator struct {
	SavingsRates RateTable
	FallbackRate decimal.Decimal
	Logger       Logger
}

// NewReturnEstimator creates an estimator with the given savings-rate table.
func NewReturnEstimator(rates RateTable, fallback decimal.Decimal, logger Logger) *ReturnEstimator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &ReturnEstimator{SavingsRates: rates, FallbackRate: fallback, Logger: logger}
}

// EstimateYear computes the actual-return breakdown for a year, plus the
// document gaps found along the way. Asset classes with zero assets never
// produce gaps; absence of investments is not a gap.
func (re *ReturnEstimator) EstimateYear(year int, bp *domain.Blueprint) (domain.ActualReturn, []domain.MissingItem) {
	var missing []domain.MissingItem

	interest, interestEstimated, interestGap := re.bankInterest(year, bp.BankAccounts)
	if interestGap {
		missing = append(missing, domain.MissingItem{Year: year, Description: "rente ontbreekt"})
	}

	dividends, dividendKnown := sumIncome(year, bp.Investments, func(f domain.YearlyFigures) domain.Amount {
		return f.DividendReceived
	})
	if len(bp.Investments) > 0 && !dividendKnown {
		missing = append(missing, domain.MissingItem{Year: year, Description: "dividend ontbreekt"})
	}

	gains, _ := sumIncome(year, bp.Investments, func(f domain.YearlyFigures) domain.Amount {
		return f.RealizedGain
	})

	rental, rentalKnown := re.netRental(year, bp.RealEstate)
	if len(bp.RealEstate) > 0 && !rentalKnown {
		missing = append(missing, domain.MissingItem{Year: year, Description: "huurinkomsten ontbreken"})
	}

	actual := domain.ActualReturn{
		BankInterest:      interest.Round(),
		Dividends:         dividends.Round(),
		InvestmentGain:    gains.Round(),
		RentalIncomeNet:   rental.Round(),
		InterestEstimated: interestEstimated,
	}
	actual.Total = money.Sum(actual.BankInterest, actual.Dividends, actual.InvestmentGain, actual.RentalIncomeNet)

	return actual, missing
}

// TotalAssetsJan1 sums the known January 1 values of every asset for a year.
func (re *ReturnEstimator) TotalAssetsJan1(year int, bp *domain.Blueprint) money.Money {
	total := money.Zero()
	for _, asset := range bp.AllAssets() {
		figures, ok := asset.Figures(year)
		if !ok {
			continue
		}
		if val, ok := figures.ValueJan1.Value(); ok {
			total = total.Add(money.NewFromDecimal(val))
		}
	}
	return total.Round()
}

// bankInterest sums known interest and estimates the rest. An account with
// a January 1 balance but no recorded interest gets balance times the
// year's average savings rate. An account with neither is a document gap.
func (re *ReturnEstimator) bankInterest(year int, accounts []domain.Asset) (total money.Money, estimated, gap bool) {
	total = money.Zero()
	lookup := re.SavingsRates.Lookup(year, re.FallbackRate)

	for _, account := range accounts {
		figures, ok := account.Figures(year)
		if !ok {
			gap = true
			continue
		}

		if val, ok := figures.InterestReceived.Value(); ok {
			total = total.Add(money.NewFromDecimal(val))
			continue
		}

		balance, ok := figures.ValueJan1.Value()
		if !ok || !balance.IsPositive() {
			gap = true
			continue
		}

		est := money.NewFromDecimal(balance.Mul(lookup.Rate))
		total = total.Add(est)
		estimated = true
		if !lookup.Found {
			re.Logger.Debugf("geen spaarrente voor %d in tabel, terugval op %s", year, lookup.Rate.String())
		}
		re.Logger.Debugf("rente geschat voor %s (%d): saldo %s x %s = %s",
			account.ID, year, balance.String(), lookup.Rate.String(), est.String())
	}
	return total, estimated, gap
}

// netRental sums gross rental income minus known costs per property.
func (re *ReturnEstimator) netRental(year int, properties []domain.Asset) (money.Money, bool) {
	total := money.Zero()
	known := false
	for _, property := range properties {
		figures, ok := property.Figures(year)
		if !ok {
			continue
		}
		gross, ok := figures.RentalIncomeGross.Value()
		if !ok {
			continue
		}
		known = true
		net := gross.Sub(figures.RentalCosts.ValueOrZero())
		total = total.Add(money.NewFromDecimal(net))
	}
	return total, known
}

// sumIncome adds a single income field across a class's assets for a year.
func sumIncome(year int, assets []domain.Asset, field func(domain.YearlyFigures) domain.Amount) (money.Money, bool) {
	total := money.Zero()
	known := false
	for _, asset := range assets {
		figures, ok := asset.Figures(year)
		if !ok {
			continue
		}
		if val, ok := field(figures).Value(); ok {
			total = total.Add(money.NewFromDecimal(val))
			known = true
		}
	}
	return total, known
}
