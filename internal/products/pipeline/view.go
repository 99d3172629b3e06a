package pipeline

import (
	"sync"
	"time"

	"inventory-tracker/internal/products"
)

// View holds the list state of one client: the full product list, the filter,
// sort and page selection, and the raw search input. Every change other than
// SetPage sends the client back to page 1. The search term only takes effect
// once the debouncer settles; onApply is then called so the owner can push a
// fresh snapshot.
type View struct {
	mu        sync.Mutex
	items     []products.Product
	query     Query
	rawSearch string
	debounce  *Debouncer
	onApply   func()
}

func NewView(debounce *Debouncer, onApply func()) *View {
	if onApply == nil {
		onApply = func() {}
	}
	return &View{
		query:    DefaultQuery(),
		debounce: debounce,
		onApply:  onApply,
	}
}

// Load replaces the product list, e.g. after a mutation elsewhere.
func (v *View) Load(items []products.Product) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = items
}

func (v *View) SetStock(f StockFilter) {
	v.update(func(q *Query) { q.Stock = f })
}

func (v *View) SetCategory(id *int64) {
	v.update(func(q *Query) { q.CategoryID = id })
}

func (v *View) SetDateFilter(f DateFilter) {
	v.update(func(q *Query) { q.AddedWithin = f })
}

func (v *View) SetQuantityRange(lo, hi *int) {
	v.update(func(q *Query) {
		q.MinQty = lo
		q.MaxQty = hi
	})
}

func (v *View) SetSort(key SortKey, desc bool) {
	v.update(func(q *Query) {
		q.Sort = key
		q.Desc = desc
	})
}

// ToggleSort selects key ascending, or flips to descending when key is
// already the ascending sort.
func (v *View) ToggleSort(key SortKey) {
	v.update(func(q *Query) {
		q.Desc = q.Sort == key && !q.Desc
		q.Sort = key
	})
}

func (v *View) SetPageSize(size int) {
	v.update(func(q *Query) { q.PageSize = NormalizePageSize(size) })
}

func (v *View) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.query.Page = page
}

// SetSearch records the raw input and schedules the debounced apply.
func (v *View) SetSearch(term string) {
	v.mu.Lock()
	if term != v.rawSearch {
		v.query.Page = 1
	}
	v.rawSearch = term
	v.mu.Unlock()

	v.debounce.Schedule(v.applySearch)
}

func (v *View) applySearch() {
	v.mu.Lock()
	changed := v.query.Search != v.rawSearch
	v.query.Search = v.rawSearch
	if changed {
		v.query.Page = 1
	}
	v.mu.Unlock()

	v.onApply()
}

func (v *View) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) RawSearch() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rawSearch
}

func (v *View) Snapshot(now time.Time) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Apply(v.items, v.query, now)
}

func (v *View) LowStock() []products.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return LowStock(v.items)
}

// Close drops a pending search so no callback fires after the owner is gone.
func (v *View) Close() {
	v.debounce.Cancel()
}

func (v *View) update(change func(q *Query)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	change(&v.query)
	v.query.Page = 1
}
