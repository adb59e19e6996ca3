package calculation

import (
	"github.com/box3check/box3-engine/internal/domain"
)

// ClassifyNextStep maps the aggregated dossier state to a recommended
// action. Pure function, evaluated in strict priority order:
//
//  1. any year has document gaps        -> request documents
//  2. the net refund is profitable      -> file objection (per person)
//  3. any year is incomplete            -> await more client info
//  4. otherwise                         -> close, not profitable
func ClassifyNextStep(years []domain.YearSummary, household domain.HouseholdOutcome, hasPartner bool) domain.NextStep {
	for _, y := range years {
		if len(y.MissingItems) > 0 {
			return domain.NextStep{
				Action: domain.ActionRequestDocuments,
				Reason: "er ontbreken stukken voor een of meer belastingjaren",
			}
		}
	}

	if household.IsProfitable {
		count := 1
		if hasPartner {
			count = 2
		}
		return domain.NextStep{
			Action:         domain.ActionFileObjection,
			Reason:         "dossier is kansrijk, bezwaar indienen",
			ObjectionCount: count,
		}
	}

	for _, y := range years {
		if y.Status == domain.StatusIncomplete {
			return domain.NextStep{
				Action: domain.ActionAwaitClientInfo,
				Reason: "aanslaggegevens onvolledig, wachten op aanvullende informatie",
			}
		}
	}

	return domain.NextStep{
		Action: domain.ActionCloseNotProfitable,
		Reason: "dossier is niet kansrijk, sluiten",
	}
}
