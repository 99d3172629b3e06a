package pipeline

import (
	"strconv"
	"strings"
	"time"

	"inventory-tracker/internal/products"
)

type (
	StockFilter string
	DateFilter  string
)

const (
	StockAll StockFilter = "all"
	StockIn  StockFilter = "in_stock"
	StockLow StockFilter = "low_stock"
	StockOut StockFilter = "out_of_stock"

	DateAll        DateFilter = "all"
	DateLast7Days  DateFilter = "7d"
	DateLast30Days DateFilter = "30d"
)

const day = 24 * time.Hour

// ParseStock maps user input to a stock filter; unknown values mean "all".
func ParseStock(raw string) StockFilter {
	switch StockFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case StockIn, "instock":
		return StockIn
	case StockLow, "lowstock":
		return StockLow
	case StockOut, "outofstock":
		return StockOut
	default:
		return StockAll
	}
}

func ParseDateFilter(raw string) DateFilter {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "7d", "7days":
		return DateLast7Days
	case "30d", "30days":
		return DateLast30Days
	default:
		return DateAll
	}
}

// ParseBound parses an optional quantity bound. Anything non-numeric yields
// nil, i.e. no constraint on that side.
func ParseBound(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

// ParseCategory parses a category filter; "", "all" and garbage mean no filter.
func ParseCategory(raw string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (f DateFilter) days() int {
	switch f {
	case DateLast7Days:
		return 7
	case DateLast30Days:
		return 30
	default:
		return 0
	}
}

type predicate func(products.Product) bool

func stockPredicate(f StockFilter) predicate {
	switch f {
	case StockIn:
		return func(p products.Product) bool { return p.Quantity >= p.LowStockThreshold }
	case StockLow:
		return func(p products.Product) bool { return p.Quantity > 0 && p.Quantity < p.LowStockThreshold }
	case StockOut:
		return func(p products.Product) bool { return p.Quantity == 0 }
	default:
		return nil
	}
}

func categoryPredicate(id *int64) predicate {
	if id == nil {
		return nil
	}
	want := *id
	return func(p products.Product) bool {
		return p.CategoryID != nil && *p.CategoryID == want
	}
}

func datePredicate(f DateFilter, now time.Time) predicate {
	days := f.days()
	if days == 0 {
		return nil
	}
	cutoff := now.Add(-time.Duration(days) * day)
	return func(p products.Product) bool { return !p.CreatedAt.Before(cutoff) }
}

func quantityPredicate(lo, hi *int) predicate {
	if lo == nil && hi == nil {
		return nil
	}
	return func(p products.Product) bool {
		if lo != nil && p.Quantity < *lo {
			return false
		}
		if hi != nil && p.Quantity > *hi {
			return false
		}
		return true
	}
}

func searchPredicate(term string) predicate {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	return func(p products.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			containsFold(p.Description, term) ||
			containsFold(p.ProductID, term)
	}
}

func containsFold(field *string, lowerTerm string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowerTerm)
}

// filter keeps the items matching every non-nil predicate. The input slice is
// never modified.
func filter(items []products.Product, preds ...predicate) []products.Product {
	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}

	out := make([]products.Product, 0, len(items))
next:
	for _, item := range items {
		for _, keep := range active {
			if !keep(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}
