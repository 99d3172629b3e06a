package products

import (
	"time"
)

const (
	EventsQueue     = "inventory.events"
	EventCreated    = "product_created"
	EventUpdated    = "product_updated"
	EventDeleted    = "product_deleted"
	EventLowStock   = "product_low_stock"
	NewCategoryID   = "new"
	MaxNameLen      = 100
	MaxDescLen      = 500
	MaxProductIDLen = 50

	DefaultLowStockThreshold = 10
)

type Product struct {
	ID                int64     `json:"id" example:"1"`
	Name              string    `json:"name" example:"Bolt M6"`
	Description       *string   `json:"description" example:"Zinc plated"`
	Quantity          int       `json:"quantity" example:"5"`
	ProductID         *string   `json:"product_id" example:"PRD-3F9A1C2B"`
	LowStockThreshold int       `json:"low_stock_threshold" example:"10"`
	CategoryID        *int64    `json:"category_id" example:"2"`
	CategoryName      *string   `json:"category_name" example:"Hardware"`
	Price             float64   `json:"-"`
	CreatedAt         time.Time `json:"created_at" example:"2026-02-24T12:00:00Z"`
}

// IsLowStock reports quantity strictly below the reorder threshold. Out-of-stock
// items are low-stock too.
func (p Product) IsLowStock() bool {
	return p.Quantity < p.LowStockThreshold
}

func (p Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

type Category struct {
	ID   int64  `json:"id" example:"2"`
	Name string `json:"name" example:"Hardware"`
}

// ProductInput is the editable field set shared by create and update.
// LowStockThreshold nil means "use the default" on create.
type ProductInput struct {
	Name              string
	Description       string
	Quantity          int
	ProductID         string
	LowStockThreshold *int
}

// CategorySelection is either an existing numeric id, NewCategoryID together
// with NewCategoryName, or empty.
type CategorySelection struct {
	CategoryID      string
	NewCategoryName string
}

// NewProduct is the row handed to the store on insert.
type NewProduct struct {
	Name              string
	Description       *string
	Quantity          int
	ProductID         string
	LowStockThreshold int
	CategoryID        *int64
}

// ProductUpdate is the full field set written by an update.
type ProductUpdate struct {
	Name              string
	Description       *string
	Quantity          int
	ProductID         *string
	LowStockThreshold int
	CategoryID        *int64
}

type ProductEvent struct {
	EventType         string    `json:"event_type"`
	ProductID         int64     `json:"product_id"`
	Name              string    `json:"name,omitempty"`
	Quantity          int       `json:"quantity,omitempty"`
	LowStockThreshold int       `json:"low_stock_threshold,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
