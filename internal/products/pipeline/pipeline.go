// Package pipeline turns the full in-memory product list into the visible page:
// filter, then sort, then paginate. Everything here except View is a pure
// function of its arguments.
package pipeline

import (
	"time"

	"inventory-tracker/internal/products"
)

const DefaultPageSize = 10

var pageSizes = []int{10, 25, 50}

type Query struct {
	Stock       StockFilter
	CategoryID  *int64
	AddedWithin DateFilter
	MinQty      *int
	MaxQty      *int
	Search      string
	Sort        SortKey
	Desc        bool
	Page        int
	PageSize    int
}

// DefaultQuery lists newest products first, ten per page.
func DefaultQuery() Query {
	return Query{
		Stock:       StockAll,
		AddedWithin: DateAll,
		Sort:        SortCreatedAt,
		Desc:        true,
		Page:        1,
		PageSize:    DefaultPageSize,
	}
}

type Page struct {
	Items      []products.Product `json:"items"`
	Page       int                `json:"page" example:"1"`
	PageSize   int                `json:"page_size" example:"10"`
	TotalItems int                `json:"total_items" example:"23"`
	TotalPages int                `json:"total_pages" example:"3"`
}

// NormalizePageSize accepts 10, 25 or 50 and maps anything else to 10.
func NormalizePageSize(size int) int {
	for _, s := range pageSizes {
		if s == size {
			return s
		}
	}
	return DefaultPageSize
}

// Apply runs the pipeline. now anchors the date-added filter.
func Apply(items []products.Product, q Query, now time.Time) Page {
	filtered := filter(items,
		stockPredicate(q.Stock),
		categoryPredicate(q.CategoryID),
		datePredicate(q.AddedWithin, now),
		quantityPredicate(q.MinQty, q.MaxQty),
		searchPredicate(q.Search),
	)
	sorted := sortItems(filtered, q.Sort, q.Desc)
	return paginate(sorted, q.Page, q.PageSize)
}

func paginate(items []products.Product, page, size int) Page {
	size = NormalizePageSize(size)
	if page < 1 {
		page = 1
	}

	total := len(items)
	result := Page{
		Items:      []products.Product{},
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: (total + size - 1) / size,
	}

	// Compare pages before multiplying; (page-1)*size overflows for huge pages.
	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * size
	end := min(start+size, total)
	result.Items = items[start:end]
	return result
}

// LowStock returns the products below their reorder threshold in input order.
func LowStock(items []products.Product) []products.Product {
	out := make([]products.Product, 0)
	for _, p := range items {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}
