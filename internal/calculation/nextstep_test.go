package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/box3check/box3-engine/internal/domain"
	"github.com/box3check/box3-engine/pkg/money"
)

func TestClassifyNextStepPriorityOrder(t *testing.T) {
	profitable := domain.HouseholdOutcome{GrossRefund: money.NewFromInt(1000), IsProfitable: true}
	notProfitable := domain.HouseholdOutcome{}

	tests := []struct {
		name       string
		years      []domain.YearSummary
		household  domain.HouseholdOutcome
		hasPartner bool
		action     domain.NextStepAction
		objections int
	}{
		{
			name: "missing items outrank profitability",
			years: []domain.YearSummary{
				{Year: 2021, MissingItems: []domain.MissingItem{{Year: 2021, Description: "dividend ontbreekt"}}},
			},
			household: profitable,
			action:    domain.ActionRequestDocuments,
		},
		{
			name:       "profitable with partner files two objections",
			years:      []domain.YearSummary{{Year: 2021, Status: domain.StatusComplete}},
			household:  profitable,
			hasPartner: true,
			action:     domain.ActionFileObjection,
			objections: 2,
		},
		{
			name:       "profitable without partner files one objection",
			years:      []domain.YearSummary{{Year: 2021, Status: domain.StatusComplete}},
			household:  profitable,
			action:     domain.ActionFileObjection,
			objections: 1,
		},
		{
			name: "profitability outranks incomplete years",
			years: []domain.YearSummary{
				{Year: 2020, Status: domain.StatusIncomplete},
				{Year: 2021, Status: domain.StatusComplete},
			},
			household:  profitable,
			hasPartner: true,
			action:     domain.ActionFileObjection,
			objections: 2,
		},
		{
			name: "incomplete year awaits client info",
			years: []domain.YearSummary{
				{Year: 2021, Status: domain.StatusIncomplete},
			},
			household: notProfitable,
			action:    domain.ActionAwaitClientInfo,
		},
		{
			name:      "complete and not profitable closes the case",
			years:     []domain.YearSummary{{Year: 2021, Status: domain.StatusComplete}},
			household: notProfitable,
			action:    domain.ActionCloseNotProfitable,
		},
		{
			name:      "no years closes the case",
			years:     nil,
			household: notProfitable,
			action:    domain.ActionCloseNotProfitable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := ClassifyNextStep(tt.years, tt.household, tt.hasPartner)
			assert.Equal(t, tt.action, step.Action)
			assert.Equal(t, tt.objections, step.ObjectionCount)
			assert.NotEmpty(t, step.Reason)
		})
	}
}

// Determinism: same input, same recommendation.
func TestClassifyNextStepDeterministic(t *testing.T) {
	years := []domain.YearSummary{{Year: 2021, Status: domain.StatusComplete}}
	household := domain.HouseholdOutcome{GrossRefund: money.NewFromInt(42), IsProfitable: true}

	first := ClassifyNextStep(years, household, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyNextStep(years, household, true))
	}
}
