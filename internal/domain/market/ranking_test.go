package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

func records(prices ...float64) []market.PriceRecord {
	out := make([]market.PriceRecord, len(prices))
	for i, p := range prices {
		out[i] = market.PriceRecord{MarketID: i + 1, ModalPrice: p}
	}
	return out
}

func marketIDs(rs []market.PriceRecord) []int {
	ids := make([]int, len(rs))
	for i, r := range rs {
		ids[i] = r.MarketID
	}
	return ids
}

func TestSortByPrice(t *testing.T) {
	in := records(2100, 1800, 2100, 2500)

	tests := []struct {
		name      string
		direction market.SortDirection
		want      []int
	}{
		{"ascending is stable on ties", market.SortAscending, []int{2, 1, 3, 4}},
		{"descending is stable on ties", market.SortDescending, []int{4, 1, 3, 2}},
		{"none keeps insertion order", market.SortNone, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := market.SortByPrice(in, tt.direction)
			assert.Equal(t, tt.want, marketIDs(got))
		})
	}

	// input untouched
	assert.Equal(t, []int{1, 2, 3, 4}, marketIDs(in))
}

func TestParseSortDirection(t *testing.T) {
	d, err := market.ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, market.SortDescending, d)

	d, err = market.ParseSortDirection("")
	require.NoError(t, err)
	assert.Equal(t, market.SortNone, d)

	_, err = market.ParseSortDirection("sideways")
	assert.ErrorIs(t, err, market.ErrInvalidSortDirection)
}

func TestBestPrice(t *testing.T) {
	_, ok := market.BestPrice(nil)
	assert.False(t, ok)

	best, ok := market.BestPrice(records(1500, 2600, 2600, 900))
	require.True(t, ok)
	assert.Equal(t, 2, best.MarketID, "ties resolve to the first seen")
	assert.Equal(t, 2600.0, best.ModalPrice)
}

func TestPaginate(t *testing.T) {
	in := records(1, 2, 3, 4, 5)

	page, err := market.Paginate(in, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, marketIDs(page))

	page, err = market.Paginate(in, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, marketIDs(page))

	page, err = market.Paginate(in, 2, 4)
	require.NoError(t, err)
	assert.Empty(t, page, "out-of-range pages are not clamped")

	_, err = market.Paginate(in, 0, 1)
	assert.ErrorIs(t, err, market.ErrInvalidPageSize)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 3, market.ClampPage(9, 5, 2))
	assert.Equal(t, 1, market.ClampPage(0, 5, 2))
	assert.Equal(t, 1, market.ClampPage(4, 0, 2))
	assert.Equal(t, 3, market.TotalPages(5, 2))
}

func TestRawPrice_Valid(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	assert.True(t, market.RawPrice{ModalPrice: price(2450)}.Valid())
	assert.True(t, market.RawPrice{ModalPrice: price(0)}.Valid(), "zero is a reported price")
	assert.False(t, market.RawPrice{ModalPrice: price(-1)}.Valid())
	assert.False(t, market.RawPrice{}.Valid())
}
