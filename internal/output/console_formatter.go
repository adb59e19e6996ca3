package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/box3check/box3-engine/internal/domain"
)

// ConsoleFormatter renders a concise Dutch-language dossier summary for
// the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(assessment *domain.DossierAssessment) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "BOX 3 BEOORDELING — DOSSIER %s\n", assessment.DossierID)
	fmt.Fprintln(&buf, "========================================")
	fmt.Fprintln(&buf)

	for _, year := range assessment.Years {
		fmt.Fprintf(&buf, "Belastingjaar %d (%s)\n", year.Year, statusLabel(year.Status))
		if year.Status == domain.StatusIncomplete {
			fmt.Fprintln(&buf, "  Geen aanslaggegevens: teruggave niet berekend")
		} else {
			t := year.CalculatedTotals
			fmt.Fprintf(&buf, "  Fictief rendement:    %s\n", FormatEUR(t.DeemedReturn.Decimal))
			fmt.Fprintf(&buf, "  Werkelijk rendement:  %s%s\n", estimateMarker(t.Estimated), FormatEUR(t.ActualReturn.Total.Decimal))
			fmt.Fprintf(&buf, "  Verschil:             %s\n", FormatEUR(t.Difference.Decimal))
			fmt.Fprintf(&buf, "  Indicatieve teruggave: %s%s (tarief %s)\n",
				estimateMarker(t.Estimated), FormatEUR(t.IndicativeRefund.Decimal), FormatPercentage(t.TaxRate.Mul(hundred)))
			if year.AllocationFallback {
				fmt.Fprintln(&buf, "  Verdeling: 50/50 toegepast (opgegeven verdeling onbruikbaar)")
			}
		}
		for _, item := range year.MissingItems {
			fmt.Fprintf(&buf, "  Ontbrekend: %s\n", item.Description)
		}
		fmt.Fprintln(&buf)
	}

	persons := append([]domain.PersonOutcome(nil), assessment.Persons...)
	sort.Slice(persons, func(i, j int) bool { return persons[i].PersonID < persons[j].PersonID })
	for _, p := range persons {
		fmt.Fprintf(&buf, "%s: totaal %s%s\n", p.Name, estimateMarker(assessment.Household.Estimated), FormatEUR(p.TotalRefund.Decimal))
	}
	fmt.Fprintln(&buf)

	hh := assessment.Household
	fmt.Fprintf(&buf, "Bruto teruggave:  %s%s\n", estimateMarker(hh.Estimated), FormatEUR(hh.GrossRefund.Decimal))
	fmt.Fprintf(&buf, "Kosten:           %s (%d jaar x %s)\n", FormatEUR(hh.TotalCost.Decimal), hh.YearsCounted, FormatEUR(hh.CostPerYear.Decimal))
	fmt.Fprintf(&buf, "Netto teruggave:  %s%s\n", estimateMarker(hh.Estimated), FormatEUR(hh.NetRefund.Decimal))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Vervolgstap: %s\n", assessment.NextStep.Action)
	fmt.Fprintf(&buf, "  %s\n", assessment.NextStep.Reason)
	if assessment.NextStep.ObjectionCount > 0 {
		fmt.Fprintf(&buf, "  Aantal bezwaarschriften: %d\n", assessment.NextStep.ObjectionCount)
	}

	if len(assessment.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Aannames:")
		for _, a := range assessment.Assumptions {
			fmt.Fprintf(&buf, "  - %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

func statusLabel(s domain.YearStatus) string {
	switch s {
	case domain.StatusComplete:
		return "volledig"
	case domain.StatusReadyForCalculation:
		return "berekenbaar, gegevens onvolledig"
	case domain.StatusIncomplete:
		return "onvolledig"
	default:
		return string(s)
	}
}

// estimateMarker prefixes estimated figures so they read as approximate.
func estimateMarker(estimated bool) string {
	if estimated {
		return "~"
	}
	return ""
}
