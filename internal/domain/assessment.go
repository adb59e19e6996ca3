package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/pkg/money"
)

// YearStatus describes how far a tax year's data allows the calculation to go.
type YearStatus string

const (
	// StatusComplete: refund computed from fully extracted data.
	StatusComplete YearStatus = "complete"
	// StatusReadyForCalculation: refund computed, but some inputs were
	// estimated or documents are still outstanding.
	StatusReadyForCalculation YearStatus = "ready_for_calculation"
	// StatusIncomplete: the tax-authority assessment is missing, so no
	// refund can be computed for the year.
	StatusIncomplete YearStatus = "incomplete"
)

// MissingItem flags a document gap for one tax year.
type MissingItem struct {
	Year        int    `json:"year"`
	Description string `json:"description"`
}

// ActualReturn is the best-effort actual investment return for one year.
type ActualReturn struct {
	BankInterest    money.Money `json:"bank_interest"`
	Dividends       money.Money `json:"dividends"`
	InvestmentGain  money.Money `json:"investment_gain"`
	RentalIncomeNet money.Money `json:"rental_income_net"`
	Total           money.Money `json:"total"`

	// InterestEstimated is set when any bank interest had to be estimated
	// from the average savings rate instead of extracted documents.
	InterestEstimated bool `json:"interest_estimated"`
}

// CalculatedTotals are the derived figures for one tax year.
type CalculatedTotals struct {
	TotalAssets      money.Money  `json:"total_assets"`
	DeemedReturn     money.Money  `json:"deemed_return"`
	ActualReturn     ActualReturn `json:"actual_return"`
	Difference       money.Money  `json:"difference"`
	IndicativeRefund money.Money  `json:"indicative_refund"`
	TaxRate          decimal.Decimal `json:"tax_rate"`

	// Estimated marks the refund as approximate (display prefixes ~).
	Estimated    bool `json:"estimated"`
	IsProfitable bool `json:"is_profitable"`
}

// YearSummary is the full outcome for one tax year.
type YearSummary struct {
	Year             int              `json:"year"`
	Status           YearStatus       `json:"status"`
	CalculatedTotals CalculatedTotals `json:"calculated_totals"`
	MissingItems     []MissingItem    `json:"missing_items,omitempty"`

	// PersonRefunds splits the year's refund across person ids.
	PersonRefunds map[string]money.Money `json:"person_refunds,omitempty"`
	// AllocationUsed records the percentage applied per person id.
	AllocationUsed map[string]decimal.Decimal `json:"allocation_used,omitempty"`
	// AllocationFallback is set when the filed allocation was implausible
	// and the default split was applied instead.
	AllocationFallback bool `json:"allocation_fallback,omitempty"`
}

// PersonOutcome accumulates one person's refund across all years.
type PersonOutcome struct {
	PersonID     string      `json:"person_id"`
	Name         string      `json:"name"`
	TotalRefund  money.Money `json:"total_refund"`
	IsProfitable bool        `json:"is_profitable"`

	// AllocationUsed maps year to the percentage applied for this person.
	AllocationUsed map[int]decimal.Decimal `json:"allocation_used,omitempty"`
}

// HouseholdOutcome aggregates the dossier-level refund and cost netting.
type HouseholdOutcome struct {
	GrossRefund  money.Money `json:"gross_refund"`
	CostPerYear  money.Money `json:"cost_per_year"`
	YearsCounted int         `json:"years_counted"`
	TotalCost    money.Money `json:"total_cost"`
	NetRefund    money.Money `json:"net_refund"`

	IsProfitable bool `json:"is_profitable"`
	Estimated    bool `json:"estimated"`
}

// NextStepAction is the recommended follow-up for a dossier.
type NextStepAction string

const (
	ActionRequestDocuments   NextStepAction = "request_documents"
	ActionFileObjection      NextStepAction = "file_objection"
	ActionAwaitClientInfo    NextStepAction = "await_client_info"
	ActionCloseNotProfitable NextStepAction = "close_not_profitable"
)

// NextStep is the outcome of the dossier decision policy. Document gaps
// outrank profitability, which outranks incompleteness.
type NextStep struct {
	Action NextStepAction `json:"action"`
	Reason string         `json:"reason"`

	// ObjectionCount is the number of formal objections to file, one per
	// assessed person. Zero unless Action is file_objection.
	ObjectionCount int `json:"objection_count,omitempty"`
}

// DossierAssessment is the complete derived result for a dossier.
type DossierAssessment struct {
	DossierID   string          `json:"dossier_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Years       []YearSummary   `json:"years"`
	Persons     []PersonOutcome `json:"persons"`
	Household   HouseholdOutcome `json:"household"`
	NextStep    NextStep        `json:"next_step"`

	// Assumptions lists the configuration the numbers depend on.
	Assumptions []string `json:"assumptions,omitempty"`
}

// MissingItemCount counts document gaps across all years.
func (da *DossierAssessment) MissingItemCount() int {
	n := 0
	for _, y := range da.Years {
		n += len(y.MissingItems)
	}
	return n
}
