package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/box3check/box3-engine/internal/domain"
)

// CSVFormatter exports the assessment as one row per tax year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(assessment *domain.DossierAssessment) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"DossierID", "Year", "Status", "TotalAssets", "DeemedReturn", "ActualReturn", "Difference", "TaxRate", "IndicativeRefund", "Estimated", "MissingItems"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, year := range assessment.Years {
		t := year.CalculatedTotals
		row := []string{
			assessment.DossierID,
			strconv.Itoa(year.Year),
			string(year.Status),
			t.TotalAssets.StringFixed(2),
			t.DeemedReturn.StringFixed(2),
			t.ActualReturn.Total.StringFixed(2),
			t.Difference.StringFixed(2),
			t.TaxRate.StringFixed(4),
			t.IndicativeRefund.StringFixed(2),
			strconv.FormatBool(t.Estimated),
			strconv.Itoa(len(year.MissingItems)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), nil
}
