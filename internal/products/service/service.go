package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"inventory-tracker/internal/products"
	"inventory-tracker/internal/products/pipeline"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const productIDPrefix = "PRD-"

type Repository interface {
	Create(ctx context.Context, in products.NewProduct) (products.Product, error)
	Update(ctx context.Context, id int64, in products.ProductUpdate) (products.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByName(ctx context.Context, name string) (products.Product, error)
	ListAll(ctx context.Context) ([]products.Product, error)
	CreateCategory(ctx context.Context, name string) (products.Category, error)
	FindCategoryByName(ctx context.Context, name string) (products.Category, error)
	ListCategories(ctx context.Context) ([]products.Category, error)
}

type Publisher interface {
	Publish(ctx context.Context, event products.ProductEvent) error
}

// Reloader is told after every successful mutation that the product list
// changed and any copy held for presentation must be refreshed.
type Reloader interface {
	Reload()
}

type Counters struct {
	Created prometheus.Counter
	Updated prometheus.Counter
	Deleted prometheus.Counter
}

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	counters  Counters
	reloader  Reloader
	newID     func() string
	now       func() time.Time
}

func New(repo Repository, publisher Publisher, logger *slog.Logger, counters Counters) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		counters:  counters,
		newID:     generateProductID,
		now:       time.Now,
	}
}

// SetReloader wires the presentation-side refresh. It is a setter because the
// live view hub itself needs the service to load products.
func (s *Service) SetReloader(r Reloader) {
	s.reloader = r
}

func generateProductID() string {
	return productIDPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Service) CreateProduct(ctx context.Context, in products.ProductInput, sel products.CategorySelection) (products.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return products.Product{}, products.Validation("Product name is required.")
	}
	if in.Quantity <= 0 {
		return products.Product{}, products.Validation("Quantity must be greater than 0.")
	}
	threshold, err := validateFields(name, in)
	if err != nil {
		return products.Product{}, err
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return products.Product{}, products.Conflict(fmt.Sprintf("A product with the name %q already exists.", name))
	} else if !errors.Is(err, products.ErrNotFound) {
		return products.Product{}, products.Storage("DB Error (Duplicate Check): "+err.Error(), err)
	}

	categoryID, err := s.resolveCategory(ctx, sel, true)
	if err != nil {
		return products.Product{}, err
	}

	product, err := s.repo.Create(ctx, products.NewProduct{
		Name:              name,
		Description:       optional(in.Description),
		Quantity:          in.Quantity,
		ProductID:         s.newID(),
		LowStockThreshold: threshold,
		CategoryID:        categoryID,
	})
	if err != nil {
		return products.Product{}, writeError("Database error: ", err)
	}

	s.announce(ctx, products.EventCreated, product)
	s.counters.Created.Inc()
	s.reload()
	return product, nil
}

// UpdateProduct overwrites every field of product id. Unlike create it does
// not pre-check for duplicate names and allows an uncategorized product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in products.ProductInput, sel products.CategorySelection) (products.Product, error) {
	categoryID, err := s.resolveCategory(ctx, sel, false)
	if err != nil {
		return products.Product{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return products.Product{}, products.Validation("Product name is required.")
	}
	if in.Quantity < 0 {
		return products.Product{}, products.Validation("Quantity cannot be negative.")
	}
	threshold, err := validateFields(name, in)
	if err != nil {
		return products.Product{}, err
	}

	product, err := s.repo.Update(ctx, id, products.ProductUpdate{
		Name:              name,
		Description:       optional(in.Description),
		Quantity:          in.Quantity,
		ProductID:         optional(in.ProductID),
		LowStockThreshold: threshold,
		CategoryID:        categoryID,
	})
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return products.Product{}, products.Consistency("Update succeeded but failed to retrieve updated product data.", err)
		}
		s.logger.Error("update product failed", "product_id", id, "error", err)
		return products.Product{}, writeError("Update failed: ", err)
	}

	s.announce(ctx, products.EventUpdated, product)
	s.counters.Updated.Inc()
	s.reload()
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete product failed", "product_id", id, "error", err)
		if errors.Is(err, products.ErrNotFound) {
			return products.Consistency("Product not found.", err)
		}
		return products.Storage("Delete failed: "+err.Error(), err)
	}

	if err := s.publisher.Publish(ctx, products.ProductEvent{
		EventType: products.EventDeleted,
		ProductID: id,
		Timestamp: s.now().UTC(),
	}); err != nil {
		s.logger.Error("publish product_deleted event failed",
			"product_id", id,
			"error", err,
		)
	}

	s.counters.Deleted.Inc()
	s.reload()
	return nil
}

// Inventory returns the full product list, newest first.
func (s *Service) Inventory(ctx context.Context) ([]products.Product, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo list: %w", err)
	}
	return items, nil
}

// ListProducts runs the list pipeline over the full inventory and also
// reports how many products are below their threshold.
func (s *Service) ListProducts(ctx context.Context, q pipeline.Query) (pipeline.Page, int, error) {
	items, err := s.Inventory(ctx)
	if err != nil {
		return pipeline.Page{}, 0, err
	}
	return pipeline.Apply(items, q, s.now()), len(pipeline.LowStock(items)), nil
}

func (s *Service) LowStock(ctx context.Context) ([]products.Product, error) {
	items, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.LowStock(items), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]products.Category, error) {
	list, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo list categories: %w", err)
	}
	return list, nil
}

func (s *Service) announce(ctx context.Context, eventType string, p products.Product) {
	s.publish(ctx, eventType, p)
	if p.IsLowStock() {
		s.publish(ctx, products.EventLowStock, p)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, p products.Product) {
	if err := s.publisher.Publish(ctx, products.ProductEvent{
		EventType:         eventType,
		ProductID:         p.ID,
		Name:              p.Name,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		Timestamp:         s.now().UTC(),
	}); err != nil {
		s.logger.Error("publish event failed",
			"event_type", eventType,
			"product_id", p.ID,
			"error", err,
		)
	}
}

func (s *Service) reload() {
	if s.reloader != nil {
		s.reloader.Reload()
	}
}

func validateFields(name string, in products.ProductInput) (int, error) {
	if utf8.RuneCountInString(name) > products.MaxNameLen {
		return 0, products.Validation(fmt.Sprintf("Product name must be at most %d characters.", products.MaxNameLen))
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) > products.MaxDescLen {
		return 0, products.Validation(fmt.Sprintf("Description must be at most %d characters.", products.MaxDescLen))
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.ProductID)) > products.MaxProductIDLen {
		return 0, products.Validation(fmt.Sprintf("Product ID must be at most %d characters.", products.MaxProductIDLen))
	}

	threshold := products.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}
	if threshold < 0 {
		return 0, products.Validation("Low stock threshold cannot be negative.")
	}
	return threshold, nil
}

func writeError(prefix string, err error) error {
	if errors.Is(err, products.ErrCategoryMissing) {
		return products.Storage("Category does not exist.", err)
	}
	return products.Storage(prefix+err.Error(), err)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
