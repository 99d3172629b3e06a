package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"inventory-tracker/internal/products"
	"inventory-tracker/internal/products/pipeline"

	"github.com/prometheus/client_golang/prometheus"
)

type mockRepo struct {
	createFn     func(ctx context.Context, in products.NewProduct) (products.Product, error)
	updateFn     func(ctx context.Context, id int64, in products.ProductUpdate) (products.Product, error)
	deleteFn     func(ctx context.Context, id int64) error
	findByNameFn func(ctx context.Context, name string) (products.Product, error)
	listAllFn    func(ctx context.Context) ([]products.Product, error)
	createCatFn  func(ctx context.Context, name string) (products.Category, error)
	findCatFn    func(ctx context.Context, name string) (products.Category, error)
	listCatFn    func(ctx context.Context) ([]products.Category, error)
	calls        []string
}

func (m *mockRepo) Create(ctx context.Context, in products.NewProduct) (products.Product, error) {
	m.calls = append(m.calls, "Create")
	return m.createFn(ctx, in)
}
func (m *mockRepo) Update(ctx context.Context, id int64, in products.ProductUpdate) (products.Product, error) {
	m.calls = append(m.calls, "Update")
	return m.updateFn(ctx, id, in)
}
func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	m.calls = append(m.calls, "Delete")
	return m.deleteFn(ctx, id)
}
func (m *mockRepo) FindByName(ctx context.Context, name string) (products.Product, error) {
	m.calls = append(m.calls, "FindByName")
	return m.findByNameFn(ctx, name)
}
func (m *mockRepo) ListAll(ctx context.Context) ([]products.Product, error) {
	m.calls = append(m.calls, "ListAll")
	return m.listAllFn(ctx)
}
func (m *mockRepo) CreateCategory(ctx context.Context, name string) (products.Category, error) {
	m.calls = append(m.calls, "CreateCategory")
	return m.createCatFn(ctx, name)
}
func (m *mockRepo) FindCategoryByName(ctx context.Context, name string) (products.Category, error) {
	m.calls = append(m.calls, "FindCategoryByName")
	return m.findCatFn(ctx, name)
}
func (m *mockRepo) ListCategories(ctx context.Context) ([]products.Category, error) {
	m.calls = append(m.calls, "ListCategories")
	return m.listCatFn(ctx)
}

type mockPublisher struct {
	events []products.ProductEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event products.ProductEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type countingReloader struct{ n int }

func (r *countingReloader) Reload() { r.n++ }

// memoryCategories behaves like the categories table: names are unique.
type memoryCategories struct {
	byName map[string]products.Category
	nextID int64
}

func newMemoryCategories() *memoryCategories {
	return &memoryCategories{byName: map[string]products.Category{}, nextID: 1}
}

func (m *memoryCategories) create(_ context.Context, name string) (products.Category, error) {
	if _, ok := m.byName[name]; ok {
		return products.Category{}, products.ErrCategoryExists
	}
	c := products.Category{ID: m.nextID, Name: name}
	m.nextID++
	m.byName[name] = c
	return c, nil
}

func (m *memoryCategories) find(_ context.Context, name string) (products.Category, error) {
	c, ok := m.byName[name]
	if !ok {
		return products.Category{}, products.ErrCategoryNotFound
	}
	return c, nil
}

func newTestService(repo Repository, pub Publisher) (*Service, *countingReloader) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	svc := New(repo, pub, logger, Counters{
		Created: prometheus.NewCounter(prometheus.CounterOpts{Name: "t_created", Help: "t"}),
		Updated: prometheus.NewCounter(prometheus.CounterOpts{Name: "t_updated", Help: "t"}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{Name: "t_deleted", Help: "t"}),
	})
	svc.newID = func() string { return "PRD-TEST0001" }
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	reloader := &countingReloader{}
	svc.SetReloader(reloader)
	return svc, reloader
}

func defaultRepo() *mockRepo {
	cats := newMemoryCategories()
	return &mockRepo{
		createFn: func(_ context.Context, in products.NewProduct) (products.Product, error) {
			pid := in.ProductID
			return products.Product{
				ID:                1,
				Name:              in.Name,
				Description:       in.Description,
				Quantity:          in.Quantity,
				ProductID:         &pid,
				LowStockThreshold: in.LowStockThreshold,
				CategoryID:        in.CategoryID,
			}, nil
		},
		updateFn: func(_ context.Context, id int64, in products.ProductUpdate) (products.Product, error) {
			return products.Product{
				ID:                id,
				Name:              in.Name,
				Quantity:          in.Quantity,
				LowStockThreshold: in.LowStockThreshold,
				CategoryID:        in.CategoryID,
			}, nil
		},
		deleteFn: func(_ context.Context, _ int64) error { return nil },
		findByNameFn: func(_ context.Context, _ string) (products.Product, error) {
			return products.Product{}, products.ErrNotFound
		},
		listAllFn:   func(_ context.Context) ([]products.Product, error) { return []products.Product{}, nil },
		createCatFn: cats.create,
		findCatFn:   cats.find,
		listCatFn:   func(_ context.Context) ([]products.Category, error) { return []products.Category{}, nil },
	}
}

func threshold(n int) *int { return &n }

func TestCreateProduct(t *testing.T) {
	errDB := errors.New("db down")
	existing := products.CategorySelection{CategoryID: "3"}

	tests := []struct {
		name      string
		input     products.ProductInput
		sel       products.CategorySelection
		setup     func(r *mockRepo)
		wantKind  products.Kind
		wantMsg   string
		wantCalls []string
	}{
		{
			name:      "empty name never reaches the store",
			input:     products.ProductInput{Name: "", Quantity: 5},
			sel:       existing,
			wantKind:  products.KindValidation,
			wantMsg:   "Product name is required.",
			wantCalls: nil,
		},
		{
			name:      "whitespace name never reaches the store",
			input:     products.ProductInput{Name: " \t ", Quantity: 5},
			sel:       existing,
			wantKind:  products.KindValidation,
			wantCalls: nil,
		},
		{
			name:      "zero quantity fails before duplicate check",
			input:     products.ProductInput{Name: "Widget", Quantity: 0},
			sel:       existing,
			wantKind:  products.KindValidation,
			wantMsg:   "Quantity must be greater than 0.",
			wantCalls: nil,
		},
		{
			name:      "negative quantity fails before duplicate check",
			input:     products.ProductInput{Name: "Widget", Quantity: -3},
			sel:       existing,
			wantKind:  products.KindValidation,
			wantCalls: nil,
		},
		{
			name:      "name too long",
			input:     products.ProductInput{Name: strings.Repeat("x", products.MaxNameLen+1), Quantity: 1},
			sel:       existing,
			wantKind:  products.KindValidation,
			wantCalls: nil,
		},
		{
			name:      "negative threshold",
			input:     products.ProductInput{Name: "Widget", Quantity: 1, LowStockThreshold: threshold(-1)},
			sel:       existing,
			wantKind:  products.KindValidation,
			wantCalls: nil,
		},
		{
			name:  "duplicate name is a conflict and nothing is inserted",
			input: products.ProductInput{Name: "  Widget ", Quantity: 2},
			sel:   existing,
			setup: func(r *mockRepo) {
				r.findByNameFn = func(_ context.Context, name string) (products.Product, error) {
					if name != "Widget" {
						return products.Product{}, products.ErrNotFound
					}
					return products.Product{ID: 9, Name: "Widget"}, nil
				}
			},
			wantKind:  products.KindConflict,
			wantMsg:   `A product with the name "Widget" already exists.`,
			wantCalls: []string{"FindByName"},
		},
		{
			name:  "duplicate check failure is a storage error",
			input: products.ProductInput{Name: "Widget", Quantity: 2},
			sel:   existing,
			setup: func(r *mockRepo) {
				r.findByNameFn = func(_ context.Context, _ string) (products.Product, error) {
					return products.Product{}, errDB
				}
			},
			wantKind:  products.KindStorage,
			wantCalls: []string{"FindByName"},
		},
		{
			name:      "category is required on create",
			input:     products.ProductInput{Name: "Widget", Quantity: 2},
			sel:       products.CategorySelection{},
			wantKind:  products.KindValidation,
			wantMsg:   "Category is required.",
			wantCalls: []string{"FindByName"},
		},
		{
			name:      "new category needs a name",
			input:     products.ProductInput{Name: "Widget", Quantity: 2},
			sel:       products.CategorySelection{CategoryID: "new", NewCategoryName: "  "},
			wantKind:  products.KindValidation,
			wantMsg:   "New category name is required.",
			wantCalls: []string{"FindByName"},
		},
		{
			name:      "garbage category id",
			input:     products.ProductInput{Name: "Widget", Quantity: 2},
			sel:       products.CategorySelection{CategoryID: "abc"},
			wantKind:  products.KindValidation,
			wantCalls: []string{"FindByName"},
		},
		{
			name:  "insert failure is a storage error carrying the message",
			input: products.ProductInput{Name: "Widget", Quantity: 2},
			sel:   existing,
			setup: func(r *mockRepo) {
				r.createFn = func(_ context.Context, _ products.NewProduct) (products.Product, error) {
					return products.Product{}, errDB
				}
			},
			wantKind:  products.KindStorage,
			wantMsg:   "Database error: db down",
			wantCalls: []string{"FindByName", "Create"},
		},
		{
			name:  "unknown category surfaces from the foreign key",
			input: products.ProductInput{Name: "Widget", Quantity: 2},
			sel:   products.CategorySelection{CategoryID: "404"},
			setup: func(r *mockRepo) {
				r.createFn = func(_ context.Context, _ products.NewProduct) (products.Product, error) {
					return products.Product{}, products.ErrCategoryMissing
				}
			},
			wantKind:  products.KindStorage,
			wantMsg:   "Category does not exist.",
			wantCalls: []string{"FindByName", "Create"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			pub := &mockPublisher{}
			svc, reloader := newTestService(repo, pub)

			_, err := svc.CreateProduct(context.Background(), tt.input, tt.sel)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if kind := products.KindOf(err); kind != tt.wantKind {
				t.Fatalf("want kind %q, got %q (%v)", tt.wantKind, kind, err)
			}
			if tt.wantMsg != "" && products.MessageOf(err) != tt.wantMsg {
				t.Fatalf("want message %q, got %q", tt.wantMsg, products.MessageOf(err))
			}
			if strings.Join(repo.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Fatalf("want store calls %v, got %v", tt.wantCalls, repo.calls)
			}
			if len(pub.events) != 0 || reloader.n != 0 {
				t.Fatalf("failed create must not publish or reload, got %d events, %d reloads", len(pub.events), reloader.n)
			}
		})
	}
}

func TestCreateProduct_Success(t *testing.T) {
	repo := defaultRepo()
	var inserted products.NewProduct
	repo.createFn = func(_ context.Context, in products.NewProduct) (products.Product, error) {
		inserted = in
		return products.Product{ID: 12, Name: in.Name, Quantity: in.Quantity, LowStockThreshold: in.LowStockThreshold}, nil
	}
	pub := &mockPublisher{}
	svc, reloader := newTestService(repo, pub)

	product, err := svc.CreateProduct(context.Background(),
		products.ProductInput{Name: " Bolt ", Description: "  ", Quantity: 5},
		products.CategorySelection{CategoryID: "3"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != 12 {
		t.Fatalf("want id 12, got %d", product.ID)
	}
	if inserted.Name != "Bolt" || inserted.Description != nil {
		t.Fatalf("want trimmed name and nil description, got %+v", inserted)
	}
	if inserted.ProductID != "PRD-TEST0001" {
		t.Fatalf("want generated product id, got %q", inserted.ProductID)
	}
	if inserted.LowStockThreshold != products.DefaultLowStockThreshold {
		t.Fatalf("want default threshold %d, got %d", products.DefaultLowStockThreshold, inserted.LowStockThreshold)
	}
	if inserted.CategoryID == nil || *inserted.CategoryID != 3 {
		t.Fatalf("want category 3, got %v", inserted.CategoryID)
	}

	// 5 < 10: the bolt is low on stock, so an alert follows the created event.
	if len(pub.events) != 2 || pub.events[0].EventType != products.EventCreated || pub.events[1].EventType != products.EventLowStock {
		t.Fatalf("want created+low_stock events, got %v", pub.events)
	}
	if reloader.n != 1 {
		t.Fatalf("want 1 reload, got %d", reloader.n)
	}
}

func TestCreateProduct_NewCategoryIsReusedOnSecondCall(t *testing.T) {
	repo := defaultRepo()
	var categoryIDs []int64
	repo.createFn = func(_ context.Context, in products.NewProduct) (products.Product, error) {
		categoryIDs = append(categoryIDs, *in.CategoryID)
		return products.Product{ID: int64(len(categoryIDs)), Name: in.Name, Quantity: in.Quantity, LowStockThreshold: in.LowStockThreshold}, nil
	}
	svc, _ := newTestService(repo, &mockPublisher{})
	sel := products.CategorySelection{CategoryID: "new", NewCategoryName: "Hardware"}

	if _, err := svc.CreateProduct(context.Background(), products.ProductInput{Name: "Hammer", Quantity: 20}, sel); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateProduct(context.Background(), products.ProductInput{Name: "Saw", Quantity: 20}, sel); err != nil {
		t.Fatalf("second create must reuse the category, got: %v", err)
	}

	if len(categoryIDs) != 2 || categoryIDs[0] != categoryIDs[1] {
		t.Fatalf("want both products in one category, got %v", categoryIDs)
	}

	cats := 0
	for _, c := range repo.calls {
		if c == "FindCategoryByName" {
			cats++
		}
	}
	if cats != 1 {
		t.Fatalf("want exactly one re-fetch after the unique violation, got %d", cats)
	}
}

func TestCreateProduct_PublishFail_StillReturnsProduct(t *testing.T) {
	repo := defaultRepo()
	pub := &mockPublisher{err: errors.New("broker down")}
	svc, _ := newTestService(repo, pub)

	product, err := svc.CreateProduct(context.Background(),
		products.ProductInput{Name: "Widget", Quantity: 50},
		products.CategorySelection{CategoryID: "1"},
	)
	if err != nil {
		t.Fatalf("expected no error despite publish failure, got: %v", err)
	}
	if product.Name != "Widget" {
		t.Fatalf("want name Widget, got %q", product.Name)
	}
}

func TestUpdateProduct(t *testing.T) {
	tests := []struct {
		name      string
		input     products.ProductInput
		sel       products.CategorySelection
		setup     func(r *mockRepo)
		wantKind  products.Kind
		wantCat   *int64
		wantCalls []string
	}{
		{
			name:      "empty category means uncategorized",
			input:     products.ProductInput{Name: "Bolt", Quantity: 0},
			wantCalls: []string{"Update"},
		},
		{
			name:      "duplicate names are not checked",
			input:     products.ProductInput{Name: "Widget", Quantity: 3},
			sel:       products.CategorySelection{CategoryID: "7"},
			wantCat:   func() *int64 { v := int64(7); return &v }(),
			wantCalls: []string{"Update"},
		},
		{
			name:      "category resolves before name validation",
			input:     products.ProductInput{Name: "  ", Quantity: 3},
			sel:       products.CategorySelection{CategoryID: "new", NewCategoryName: "Tools"},
			wantKind:  products.KindValidation,
			wantCalls: []string{"CreateCategory"},
		},
		{
			name:      "negative quantity",
			input:     products.ProductInput{Name: "Bolt", Quantity: -1},
			wantKind:  products.KindValidation,
			wantCalls: nil,
		},
		{
			name:  "missing row is a consistency error",
			input: products.ProductInput{Name: "Bolt", Quantity: 1},
			setup: func(r *mockRepo) {
				r.updateFn = func(_ context.Context, _ int64, _ products.ProductUpdate) (products.Product, error) {
					return products.Product{}, products.ErrNotFound
				}
			},
			wantKind:  products.KindConsistency,
			wantCalls: []string{"Update"},
		},
		{
			name:  "write failure is a storage error",
			input: products.ProductInput{Name: "Bolt", Quantity: 1},
			setup: func(r *mockRepo) {
				r.updateFn = func(_ context.Context, _ int64, _ products.ProductUpdate) (products.Product, error) {
					return products.Product{}, errors.New("deadlock")
				}
			},
			wantKind:  products.KindStorage,
			wantCalls: []string{"Update"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			pub := &mockPublisher{}
			svc, reloader := newTestService(repo, pub)

			product, err := svc.UpdateProduct(context.Background(), 4, tt.input, tt.sel)

			if strings.Join(repo.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Fatalf("want store calls %v, got %v", tt.wantCalls, repo.calls)
			}
			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if kind := products.KindOf(err); kind != tt.wantKind {
					t.Fatalf("want kind %q, got %q (%v)", tt.wantKind, kind, err)
				}
				if reloader.n != 0 {
					t.Fatalf("failed update must not reload")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product.ID != 4 {
				t.Fatalf("want id 4, got %d", product.ID)
			}
			if (tt.wantCat == nil) != (product.CategoryID == nil) || (tt.wantCat != nil && *tt.wantCat != *product.CategoryID) {
				t.Fatalf("want category %v, got %v", tt.wantCat, product.CategoryID)
			}
			if len(pub.events) == 0 || pub.events[0].EventType != products.EventUpdated {
				t.Fatalf("want %q event, got %v", products.EventUpdated, pub.events)
			}
			if reloader.n != 1 {
				t.Fatalf("want 1 reload, got %d", reloader.n)
			}
		})
	}
}

func TestDeleteProduct(t *testing.T) {
	tests := []struct {
		name      string
		id        int64
		repoErr   error
		wantKind  products.Kind
		wantEvent string
	}{
		{
			name:      "success",
			id:        42,
			wantEvent: products.EventDeleted,
		},
		{
			name:     "not found",
			id:       999,
			repoErr:  products.ErrNotFound,
			wantKind: products.KindConsistency,
		},
		{
			name:     "storage failure is reported, not swallowed",
			id:       1,
			repoErr:  errors.New("timeout"),
			wantKind: products.KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := defaultRepo()
			repo.deleteFn = func(_ context.Context, _ int64) error {
				return tt.repoErr
			}
			pub := &mockPublisher{}
			svc, reloader := newTestService(repo, pub)

			err := svc.DeleteProduct(context.Background(), tt.id)

			if tt.wantKind != "" {
				if err == nil || products.KindOf(err) != tt.wantKind {
					t.Fatalf("want %q error, got %v", tt.wantKind, err)
				}
				if !errors.Is(err, tt.repoErr) {
					t.Fatalf("want error wrapping %v, got %v", tt.repoErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pub.events) != 1 || pub.events[0].EventType != tt.wantEvent {
				t.Fatalf("want event %q, got %v", tt.wantEvent, pub.events)
			}
			if reloader.n != 1 {
				t.Fatalf("want 1 reload, got %d", reloader.n)
			}
		})
	}
}

func TestListProducts(t *testing.T) {
	repo := defaultRepo()
	repo.listAllFn = func(_ context.Context) ([]products.Product, error) {
		return []products.Product{
			{ID: 1, Name: "Bolt", Quantity: 5, LowStockThreshold: 10},
			{ID: 2, Name: "Nut", Quantity: 0, LowStockThreshold: 10},
			{ID: 3, Name: "Hammer", Quantity: 40, LowStockThreshold: 5},
		}, nil
	}
	svc, _ := newTestService(repo, &mockPublisher{})

	q := pipeline.DefaultQuery()
	q.Search = "bol"
	page, lowStock, err := svc.ListProducts(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Bolt" {
		t.Fatalf("want only Bolt, got %v", page.Items)
	}
	if lowStock != 2 {
		t.Fatalf("want 2 low-stock products, got %d", lowStock)
	}

	alerts, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 2 || alerts[0].Name != "Bolt" || alerts[1].Name != "Nut" {
		t.Fatalf("want Bolt and Nut, got %v", alerts)
	}
}

func TestListProducts_RepoError(t *testing.T) {
	repo := defaultRepo()
	errDB := errors.New("db down")
	repo.listAllFn = func(_ context.Context) ([]products.Product, error) { return nil, errDB }
	svc, _ := newTestService(repo, &mockPublisher{})

	if _, _, err := svc.ListProducts(context.Background(), pipeline.DefaultQuery()); !errors.Is(err, errDB) {
		t.Fatalf("want error wrapping %v, got %v", errDB, err)
	}
}

func TestGenerateProductID(t *testing.T) {
	id := generateProductID()
	if !strings.HasPrefix(id, productIDPrefix) || len(id) != len(productIDPrefix)+8 {
		t.Fatalf("unexpected product id %q", id)
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("want upper-case id, got %q", id)
	}
	if len(id) > products.MaxProductIDLen {
		t.Fatalf("id %q longer than %d", id, products.MaxProductIDLen)
	}
}
