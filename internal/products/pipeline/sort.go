package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"inventory-tracker/internal/products"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortQuantity  SortKey = "quantity"
	SortCreatedAt SortKey = "created_at"
	SortProductID SortKey = "product_id"
	SortCategory  SortKey = "category"
)

// ParseSort returns the sort key for raw, falling back to created_at.
func ParseSort(raw string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortName, SortQuantity, SortCreatedAt, SortProductID, SortCategory:
		return k
	default:
		return SortCreatedAt
	}
}

// ParseOrder reports whether raw asks for descending order.
func ParseOrder(raw string) (desc bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "desc":
		return true, true
	case "asc":
		return false, true
	default:
		return false, false
	}
}

// compareNullable orders a nil value after every non-nil one. Reversing the
// result for descending order therefore puts nils first.
func compareNullable(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return strings.Compare(*a, *b)
	}
}

func comparator(key SortKey) func(a, b products.Product) int {
	switch key {
	case SortName:
		return func(a, b products.Product) int { return strings.Compare(a.Name, b.Name) }
	case SortQuantity:
		return func(a, b products.Product) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case SortProductID:
		return func(a, b products.Product) int { return compareNullable(a.ProductID, b.ProductID) }
	case SortCategory:
		return func(a, b products.Product) int { return compareNullable(a.CategoryName, b.CategoryName) }
	default:
		return func(a, b products.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// sortItems stable-sorts a copy of items; ties keep their input order in both
// directions.
func sortItems(items []products.Product, key SortKey, desc bool) []products.Product {
	out := slices.Clone(items)
	less := comparator(key)
	if desc {
		asc := less
		less = func(a, b products.Product) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, less)
	return out
}
