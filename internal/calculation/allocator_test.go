package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/box3check/box3-engine/internal/domain"
	"github.com/box3check/box3-engine/pkg/money"
)

func partneredEntity() domain.FiscalEntity {
	return domain.FiscalEntity{
		Taxpayer:      domain.Person{ID: "tp-1", Name: "J. de Vries"},
		FiscalPartner: &domain.Person{ID: "fp-1", Name: "A. de Vries", HasPartner: true},
	}
}

func allocations(taxpayer, partner float64) *domain.TaxAuthorityData {
	return &domain.TaxAuthorityData{
		PerPerson: map[string]domain.PersonAssessment{
			"tp-1": {AllocationPercentage: amt(taxpayer)},
			"fp-1": {AllocationPercentage: amt(partner)},
		},
	}
}

func TestSplitYearFiledAllocation(t *testing.T) {
	allocator := NewPersonAllocator(DefaultAllocationPolicy(), nil)

	split := allocator.SplitYear(2021, money.NewFromInt(1000), partneredEntity(), allocations(60, 40))

	assert.False(t, split.Fallback)
	assert.Equal(t, "€600.00", split.Refunds["tp-1"].String())
	assert.Equal(t, "€400.00", split.Refunds["fp-1"].String())
	assert.Equal(t, "60", split.Percentages["tp-1"].String())
	assert.Equal(t, "40", split.Percentages["fp-1"].String())
}

func TestSplitYearImplausibleAllocationFallsBack(t *testing.T) {
	allocator := NewPersonAllocator(DefaultAllocationPolicy(), nil)

	tests := []struct {
		name     string
		taxpayer float64
		partner  float64
	}{
		{"all to one side", 0, 100},
		{"outside band low", 4, 96},
		{"sum far from 100", 60, 50},
		{"sum far below 100", 40, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := allocator.SplitYear(2021, money.NewFromInt(1000), partneredEntity(), allocations(tt.taxpayer, tt.partner))

			assert.True(t, split.Fallback)
			assert.Equal(t, "€500.00", split.Refunds["tp-1"].String())
			assert.Equal(t, "€500.00", split.Refunds["fp-1"].String())
		})
	}
}

func TestSplitYearToleratesSmallDeviation(t *testing.T) {
	allocator := NewPersonAllocator(DefaultAllocationPolicy(), nil)

	// 58 + 45 = 103, within the +-5 tolerance; partner takes the remainder
	// so the shares still partition the total exactly.
	split := allocator.SplitYear(2021, money.NewFromInt(1000), partneredEntity(), allocations(58, 45))

	assert.False(t, split.Fallback)
	assert.Equal(t, "€580.00", split.Refunds["tp-1"].String())
	assert.Equal(t, "€420.00", split.Refunds["fp-1"].String())
}

func TestSplitYearMissingDataFallsBack(t *testing.T) {
	allocator := NewPersonAllocator(DefaultAllocationPolicy(), nil)

	split := allocator.SplitYear(2021, money.NewFromInt(1000), partneredEntity(), nil)
	assert.True(t, split.Fallback)
	assert.Equal(t, "€500.00", split.Refunds["tp-1"].String())
	assert.Equal(t, "€500.00", split.Refunds["fp-1"].String())

	partial := &domain.TaxAuthorityData{
		PerPerson: map[string]domain.PersonAssessment{
			"tp-1": {AllocationPercentage: amt(60)},
		},
	}
	split = allocator.SplitYear(2021, money.NewFromInt(1000), partneredEntity(), partial)
	assert.True(t, split.Fallback)
}

func TestSplitYearWithoutPartner(t *testing.T) {
	allocator := NewPersonAllocator(DefaultAllocationPolicy(), nil)
	single := domain.FiscalEntity{Taxpayer: domain.Person{ID: "tp-1"}}

	split := allocator.SplitYear(2021, money.NewFromInt(1000), single, nil)

	assert.False(t, split.Fallback)
	require.Len(t, split.Refunds, 1)
	assert.Equal(t, "€1000.00", split.Refunds["tp-1"].String())
	assert.Equal(t, "100", split.Percentages["tp-1"].String())
}

// TestSplitAlwaysPartitionsTotal checks the partition invariant for both
// the filed and the fallback path.
func TestSplitAlwaysPartitionsTotal(t *testing.T) {
	allocator := NewPersonAllocator(DefaultAllocationPolicy(), nil)
	total := money.New(333.33)

	for _, data := range []*domain.TaxAuthorityData{
		allocations(60, 40),
		allocations(0, 100),
		allocations(52, 51),
		nil,
	} {
		split := allocator.SplitYear(2021, total, partneredEntity(), data)
		sum := money.Sum(split.Refunds["tp-1"], split.Refunds["fp-1"])
		assert.True(t, sum.Equal(total), "split does not partition %s: got %s", total, sum)
	}
}

func TestCustomPolicy(t *testing.T) {
	strict := AllocationPolicy{
		SumTolerance: decimal.NewFromInt(1),
		MinShare:     decimal.NewFromInt(20),
		MaxShare:     decimal.NewFromInt(80),
	}
	allocator := NewPersonAllocator(strict, nil)

	// 10/90 is fine under the default policy but outside this band.
	split := allocator.SplitYear(2021, money.NewFromInt(1000), partneredEntity(), allocations(10, 90))
	assert.True(t, split.Fallback)
}
