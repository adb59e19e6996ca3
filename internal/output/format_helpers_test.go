package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatEUR(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "€ 0,00"},
		{12, "€ 12,00"},
		{1234.56, "€ 1.234,56"},
		{987654.3, "€ 987.654,30"},
	}
	for _, c := range cases {
		got := FormatEUR(decimal.NewFromFloat(c.in))
		if got != c.want {
			t.Errorf("FormatEUR(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	got := FormatPercentage(decimal.NewFromFloat(32))
	if got != "32.0%" {
		t.Errorf("FormatPercentage(32) = %q, want %q", got, "32.0%")
	}
}
