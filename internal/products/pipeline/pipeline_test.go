package pipeline

import (
	"fmt"
	"math"
	"testing"
	"time"

	"inventory-tracker/internal/products"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func idPtr(i int64) *int64    { return &i }

func names(items []products.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func sampleInventory() []products.Product {
	return []products.Product{
		{ID: 1, Name: "Bolt", Quantity: 5, LowStockThreshold: 10, CategoryID: idPtr(1), ProductID: strPtr("PRD-AAA111"), CreatedAt: now.Add(-2 * day)},
		{ID: 2, Name: "Nut", Quantity: 0, LowStockThreshold: 10, CategoryID: idPtr(1), CreatedAt: now.Add(-10 * day)},
		{ID: 3, Name: "Hammer", Quantity: 40, LowStockThreshold: 5, CategoryID: idPtr(2), Description: strPtr("Steel claw hammer"), CreatedAt: now.Add(-40 * day)},
		{ID: 4, Name: "Washer", Quantity: 10, LowStockThreshold: 10, ProductID: strPtr("PRD-WSH001"), CreatedAt: now.Add(-6 * day)},
	}
}

func TestApply_StockFilter(t *testing.T) {
	tests := []struct {
		filter StockFilter
		want   []string
	}{
		{filter: StockAll, want: []string{"Bolt", "Washer", "Nut", "Hammer"}},
		{filter: StockIn, want: []string{"Washer", "Hammer"}},
		{filter: StockLow, want: []string{"Bolt"}},
		{filter: StockOut, want: []string{"Nut"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			q := DefaultQuery()
			q.Stock = tt.filter
			page := Apply(sampleInventory(), q, now)
			assert.Equal(t, tt.want, names(page.Items))
		})
	}
}

func TestApply_BoltIsLowStockNotOutOfStock(t *testing.T) {
	bolt := []products.Product{{Name: "Bolt", Quantity: 5, LowStockThreshold: 10}}

	require.True(t, bolt[0].IsLowStock())

	q := DefaultQuery()
	q.Stock = StockLow
	assert.Len(t, Apply(bolt, q, now).Items, 1)

	q.Stock = StockOut
	assert.Empty(t, Apply(bolt, q, now).Items)
}

func TestApply_SearchMatchesAnyTextField(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{term: "bol", want: []string{"Bolt"}},
		{term: "BOL", want: []string{"Bolt"}},
		{term: "claw", want: []string{"Hammer"}},
		{term: "wsh", want: []string{"Washer"}},
		{term: "prd-", want: []string{"Bolt", "Washer"}},
		{term: "   ", want: []string{"Bolt", "Washer", "Nut", "Hammer"}},
		{term: "nothing", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			q := DefaultQuery()
			q.Search = tt.term
			assert.Equal(t, tt.want, names(Apply(sampleInventory(), q, now).Items))
		})
	}
}

func TestApply_CategoryDateAndQuantity(t *testing.T) {
	q := DefaultQuery()
	q.CategoryID = idPtr(1)
	assert.Equal(t, []string{"Bolt", "Nut"}, names(Apply(sampleInventory(), q, now).Items))

	q = DefaultQuery()
	q.AddedWithin = DateLast7Days
	assert.Equal(t, []string{"Bolt", "Washer"}, names(Apply(sampleInventory(), q, now).Items))

	q.AddedWithin = DateLast30Days
	assert.Equal(t, []string{"Bolt", "Washer", "Nut"}, names(Apply(sampleInventory(), q, now).Items))

	q = DefaultQuery()
	q.MinQty = intPtr(5)
	q.MaxQty = intPtr(10)
	assert.Equal(t, []string{"Bolt", "Washer"}, names(Apply(sampleInventory(), q, now).Items))

	q.MinQty = ParseBound("abc")
	assert.Equal(t, []string{"Bolt", "Washer", "Nut"}, names(Apply(sampleInventory(), q, now).Items))
}

func TestApply_FiltersCombineConjunctively(t *testing.T) {
	q := DefaultQuery()
	q.CategoryID = idPtr(1)
	q.Stock = StockLow
	q.Search = "bo"
	q.AddedWithin = DateLast7Days
	q.MaxQty = intPtr(5)

	assert.Equal(t, []string{"Bolt"}, names(Apply(sampleInventory(), q, now).Items))
}

func TestApply_Pagination(t *testing.T) {
	items := make([]products.Product, 23)
	for i := range items {
		items[i] = products.Product{ID: int64(i + 1), Name: fmt.Sprintf("item-%02d", i+1), Quantity: i, LowStockThreshold: 10}
	}

	q := DefaultQuery()
	q.Sort = SortName
	q.Desc = false

	first := Apply(items, q, now)
	require.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 23, first.TotalItems)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, "item-01", first.Items[0].Name)

	q.Page = 3
	last := Apply(items, q, now)
	assert.Len(t, last.Items, 3)
	assert.Equal(t, "item-21", last.Items[0].Name)

	q.Page = 4
	beyond := Apply(items, q, now)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 3, beyond.TotalPages)

	q.Page = math.MaxInt
	huge := Apply(items, q, now)
	assert.NotNil(t, huge.Items)
	assert.Empty(t, huge.Items, "page far past the end must not overflow the offset")
	assert.Equal(t, math.MaxInt, huge.Page)

	q.Page = 1
	q.PageSize = 25
	assert.Equal(t, 1, Apply(items, q, now).TotalPages)

	q.PageSize = 7
	assert.Equal(t, DefaultPageSize, Apply(items, q, now).PageSize)
}

func TestApply_EmptyInput(t *testing.T) {
	page := Apply(nil, DefaultQuery(), now)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestApply_StableSortKeepsTiesInInputOrder(t *testing.T) {
	items := []products.Product{
		{Name: "B", Quantity: 1},
		{Name: "A", Quantity: 1},
		{Name: "C", Quantity: 0},
	}

	q := DefaultQuery()
	q.Sort = SortQuantity
	q.Desc = false
	assert.Equal(t, []string{"C", "B", "A"}, names(Apply(items, q, now).Items))

	q.Desc = true
	assert.Equal(t, []string{"B", "A", "C"}, names(Apply(items, q, now).Items))
}

func TestApply_NilValuesSortLastAscendingFirstDescending(t *testing.T) {
	items := []products.Product{
		{Name: "none-1"},
		{Name: "b", ProductID: strPtr("PRD-B")},
		{Name: "none-2"},
		{Name: "a", ProductID: strPtr("PRD-A")},
	}

	q := DefaultQuery()
	q.Sort = SortProductID
	q.Desc = false
	assert.Equal(t, []string{"a", "b", "none-1", "none-2"}, names(Apply(items, q, now).Items))

	q.Desc = true
	assert.Equal(t, []string{"none-1", "none-2", "b", "a"}, names(Apply(items, q, now).Items))
}

func TestApply_IsPure(t *testing.T) {
	items := sampleInventory()
	before := names(items)

	q := DefaultQuery()
	q.Sort = SortName
	q.Desc = false
	q.PageSize = 25

	first := Apply(items, q, now)
	second := Apply(items, q, now)

	assert.Equal(t, first, second)
	assert.Equal(t, before, names(items), "input slice must not be reordered")
}

func TestLowStock(t *testing.T) {
	assert.Equal(t, []string{"Bolt", "Nut"}, names(LowStock(sampleInventory())))
	assert.NotNil(t, LowStock(nil))
}

func TestParsers(t *testing.T) {
	assert.Equal(t, StockLow, ParseStock("lowStock"))
	assert.Equal(t, StockOut, ParseStock("out_of_stock"))
	assert.Equal(t, StockAll, ParseStock("bogus"))
	assert.Equal(t, DateLast30Days, ParseDateFilter("30days"))
	assert.Equal(t, DateAll, ParseDateFilter(""))
	assert.Equal(t, SortQuantity, ParseSort("Quantity"))
	assert.Equal(t, SortCreatedAt, ParseSort("price"))
	assert.Nil(t, ParseCategory("all"))
	assert.Equal(t, int64(3), *ParseCategory("3"))

	desc, ok := ParseOrder("DESC")
	assert.True(t, desc)
	assert.True(t, ok)
	_, ok = ParseOrder("sideways")
	assert.False(t, ok)
}
