package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// OwnerJoint marks assets held jointly by both fiscal partners.
const OwnerJoint = "joint"

// Blueprint is the structured dossier produced by the external
// document-classification pipeline. It is the sole input to the
// profitability calculation; the engine never mutates it except through an
// explicit manual-override merge before recomputation.
type Blueprint struct {
	DossierID    string       `json:"dossier_id"`
	FiscalEntity FiscalEntity `json:"fiscal_entity"`

	// TaxYears lists the years under review. When empty, the years are
	// derived from the tax-authority data and asset yearly figures.
	TaxYears []int `json:"tax_years,omitempty"`

	BankAccounts []Asset `json:"bank_accounts,omitempty"`
	Investments  []Asset `json:"investments,omitempty"`
	RealEstate   []Asset `json:"real_estate,omitempty"`
	OtherAssets  []Asset `json:"other_assets,omitempty"`
	Debts        []Debt  `json:"debts,omitempty"`

	// TaxAuthority holds the Belastingdienst assessment data per year.
	TaxAuthority map[int]TaxAuthorityData `json:"tax_authority_data,omitempty"`

	Overrides *ManualOverrides `json:"manual_overrides,omitempty"`
}

// FiscalEntity groups the taxpayer and the optional fiscal partner.
type FiscalEntity struct {
	Taxpayer      Person  `json:"taxpayer"`
	FiscalPartner *Person `json:"fiscal_partner,omitempty"`
}

// HasPartner reports whether a fiscal partner is part of the dossier.
func (fe FiscalEntity) HasPartner() bool {
	return fe.FiscalPartner != nil && fe.FiscalPartner.HasPartner
}

// PersonIDs returns the taxpayer id, plus the partner id when present.
func (fe FiscalEntity) PersonIDs() []string {
	ids := []string{fe.Taxpayer.ID}
	if fe.HasPartner() {
		ids = append(ids, fe.FiscalPartner.ID)
	}
	return ids
}

// Person identifies one member of the fiscal household.
type Person struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HasPartner bool   `json:"has_partner,omitempty"`
}

// Asset is a single bank account, investment portfolio, property or other
// Box 3 asset, with extracted figures per tax year.
type Asset struct {
	ID                  string                `json:"id"`
	Description         string                `json:"description"`
	OwnerID             string                `json:"owner_id"`
	OwnershipPercentage Amount                `json:"ownership_percentage,omitempty"`
	YearlyData          map[int]YearlyFigures `json:"yearly_data,omitempty"`
}

// Figures returns the asset's extracted figures for a year.
func (a Asset) Figures(year int) (YearlyFigures, bool) {
	yf, ok := a.YearlyData[year]
	return yf, ok
}

// Debt is a Box 3 liability, with extracted figures per tax year.
type Debt struct {
	ID          string                `json:"id"`
	Description string                `json:"description"`
	OwnerID     string                `json:"owner_id"`
	YearlyData  map[int]YearlyFigures `json:"yearly_data,omitempty"`
}

// YearlyFigures holds the extracted per-year numbers for one asset or debt.
// Income fields only apply to the matching asset class; the others stay
// unknown.
type YearlyFigures struct {
	ValueJan1  Amount `json:"value_jan_1,omitempty"`
	ValueDec31 Amount `json:"value_dec_31,omitempty"`

	InterestReceived  Amount `json:"interest_received,omitempty"`
	DividendReceived  Amount `json:"dividend_received,omitempty"`
	RealizedGain      Amount `json:"realized_gain,omitempty"`
	RentalIncomeGross Amount `json:"rental_income_gross,omitempty"`
	RentalCosts       Amount `json:"rental_costs,omitempty"`
}

// TaxAuthorityData is the Belastingdienst view of one tax year.
type TaxAuthorityData struct {
	HouseholdTotals HouseholdTotals             `json:"household_totals"`
	PerPerson       map[string]PersonAssessment `json:"per_person,omitempty"`
}

// HouseholdTotals are the household-level figures from the assessment.
type HouseholdTotals struct {
	GrossAssets  Amount `json:"gross_assets,omitempty"`
	Debts        Amount `json:"debts,omitempty"`
	ExemptAmount Amount `json:"exempt_amount,omitempty"`
	TaxableBase  Amount `json:"taxable_base,omitempty"`
	DeemedReturn Amount `json:"deemed_return,omitempty"`
	TaxAssessed  Amount `json:"tax_assessed,omitempty"`
}

// PersonAssessment carries the per-person figures from the assessment,
// including the allocation percentage the partners chose in their filing.
type PersonAssessment struct {
	TaxAssessed          Amount `json:"tax_assessed,omitempty"`
	DeemedReturn         Amount `json:"deemed_return,omitempty"`
	AllocationPercentage Amount `json:"allocation_percentage,omitempty"`
	TotalAssetsBox3      Amount `json:"total_assets_box3,omitempty"`
	TotalDebtsBox3       Amount `json:"total_debts_box3,omitempty"`
}

// ManualOverrides are user-supplied corrections merged into the blueprint
// before recomputation. Only known fields replace their extracted
// counterparts.
type ManualOverrides struct {
	CostPerYear *decimal.Decimal `json:"cost_per_year,omitempty"`
	Assets      []AssetOverride  `json:"assets,omitempty"`
}

// AssetOverride replaces extracted figures for one asset-year.
type AssetOverride struct {
	AssetID string        `json:"asset_id"`
	Year    int           `json:"year"`
	Figures YearlyFigures `json:"figures"`
}

// AllAssets returns every asset collection flattened, in class order.
func (bp *Blueprint) AllAssets() []Asset {
	out := make([]Asset, 0, len(bp.BankAccounts)+len(bp.Investments)+len(bp.RealEstate)+len(bp.OtherAssets))
	out = append(out, bp.BankAccounts...)
	out = append(out, bp.Investments...)
	out = append(out, bp.RealEstate...)
	out = append(out, bp.OtherAssets...)
	return out
}

// DeclaredYears returns the tax years under review, ascending. The explicit
// list wins; otherwise years are derived from tax-authority data and asset
// yearly figures.
func (bp *Blueprint) DeclaredYears() []int {
	if len(bp.TaxYears) > 0 {
		years := append([]int(nil), bp.TaxYears...)
		sort.Ints(years)
		return years
	}

	seen := map[int]bool{}
	for year := range bp.TaxAuthority {
		seen[year] = true
	}
	for _, asset := range bp.AllAssets() {
		for year := range asset.YearlyData {
			seen[year] = true
		}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
