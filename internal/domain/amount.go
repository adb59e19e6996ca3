package domain

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Amount is a monetary field as it arrives from the extraction pipeline.
// The wire shape varies: a bare JSON number, an object carrying the number
// under "amount" or "value" together with extraction metadata, or null when
// the pipeline found nothing. All reads go through Value so the shape
// handling lives in exactly one place.
type Amount struct {
	value         *decimal.Decimal
	SourceSnippet string
	Confidence    float64
}

// KnownAmount builds an Amount holding the given value. Used by tests and
// by the manual-override merge.
func KnownAmount(d decimal.Decimal) Amount {
	return Amount{value: &d}
}

// Value returns the normalized numeric value and whether one was extracted.
func (a Amount) Value() (decimal.Decimal, bool) {
	if a.value == nil {
		return decimal.Zero, false
	}
	return *a.value, true
}

// Known reports whether the field carries an extracted value.
func (a Amount) Known() bool {
	return a.value != nil
}

// ValueOrZero returns the extracted value, or zero when absent.
func (a Amount) ValueOrZero() decimal.Decimal {
	if a.value == nil {
		return decimal.Zero
	}
	return *a.value
}

type amountObject struct {
	Amount        *decimal.Decimal `json:"amount"`
	Value         *decimal.Decimal `json:"value"`
	SourceSnippet string           `json:"source_snippet"`
	Confidence    float64          `json:"confidence"`
}

// UnmarshalJSON accepts the three wire shapes described above.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if trimmed[0] == '{' {
		var obj amountObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("amount object: %w", err)
		}
		val := obj.Amount
		if val == nil {
			val = obj.Value
		}
		*a = Amount{value: val, SourceSnippet: obj.SourceSnippet, Confidence: obj.Confidence}
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount{value: &d}
	return nil
}

// MarshalJSON writes the bare number, or null when no value is known.
// Extraction metadata is not round-tripped; it only flows inward.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*a.value)
}
