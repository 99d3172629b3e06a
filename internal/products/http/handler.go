package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"inventory-tracker/internal/products"
	"inventory-tracker/internal/products/pipeline"

	"github.com/gin-gonic/gin"
)

const defaultPage = 1

type ProductService interface {
	CreateProduct(ctx context.Context, in products.ProductInput, sel products.CategorySelection) (products.Product, error)
	UpdateProduct(ctx context.Context, id int64, in products.ProductInput, sel products.CategorySelection) (products.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, q pipeline.Query) (pipeline.Page, int, error)
	LowStock(ctx context.Context) ([]products.Product, error)
	ListCategories(ctx context.Context) ([]products.Category, error)
}

type Handler struct {
	service ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{service: svc}
}

// productRequest is the product form. CategoryID is either a numeric id,
// "new" (with NewCategoryName) or empty.
type productRequest struct {
	Name              string `json:"name" example:"Bolt M6"`
	Description       string `json:"description" example:"Zinc plated"`
	Quantity          *int   `json:"quantity" binding:"required" example:"50"`
	ProductID         string `json:"product_id" example:"PRD-3F9A1C2B"`
	LowStockThreshold *int   `json:"low_stock_threshold" example:"10"`
	CategoryID        string `json:"category_id" example:"new"`
	NewCategoryName   string `json:"new_category_name" example:"Hardware"`
}

func (r productRequest) input() (products.ProductInput, products.CategorySelection) {
	in := products.ProductInput{
		Name:              r.Name,
		Description:       r.Description,
		Quantity:          *r.Quantity,
		ProductID:         r.ProductID,
		LowStockThreshold: r.LowStockThreshold,
	}
	sel := products.CategorySelection{
		CategoryID:      r.CategoryID,
		NewCategoryName: r.NewCategoryName,
	}
	return in, sel
}

type errorResponse struct {
	Error string `json:"error" example:"invalid product id"`
}

type listProductsResponse struct {
	pipeline.Page
	LowStockCount int `json:"low_stock_count" example:"2"`
}

// createProductResponse is the create result with the generated product
// code repeated at the top level.
type createProductResponse struct {
	products.Result[products.Product]
	NewID string `json:"new_id,omitempty" example:"PRD-3F9A1C2B"`
}

type deletedProduct struct {
	ID int64 `json:"id" example:"1"`
}

// CreateProduct godoc
// @Summary      Add a product to the inventory
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product data"
// @Success      201   {object}  createProductResponse
// @Failure      400   {object}  products.Result[products.Product]
// @Failure      409   {object}  products.Result[products.Product]
// @Failure      500   {object}  products.Result[products.Product]
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, products.Fail[products.Product](products.Validation("Invalid request body.")))
		return
	}

	in, sel := req.input()
	product, err := h.service.CreateProduct(c.Request.Context(), in, sel)
	if err != nil {
		c.JSON(statusFor(err), products.Fail[products.Product](err))
		return
	}

	newID := deref(product.ProductID)
	c.JSON(http.StatusCreated, createProductResponse{
		Result: products.Ok(product, fmt.Sprintf("Item %q added successfully with ID %s.", product.Name, newID)),
		NewID:  newID,
	})
}

// UpdateProduct godoc
// @Summary      Overwrite a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product ID"
// @Param        body  body      productRequest  true  "Product data"
// @Success      200   {object}  products.Result[products.Product]
// @Failure      400   {object}  products.Result[products.Product]
// @Failure      404   {object}  products.Result[products.Product]
// @Failure      500   {object}  products.Result[products.Product]
// @Router       /products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, products.Fail[products.Product](products.Validation("Invalid request body.")))
		return
	}

	in, sel := req.input()
	product, err := h.service.UpdateProduct(c.Request.Context(), id, in, sel)
	if err != nil {
		c.JSON(statusFor(err), products.Fail[products.Product](err))
		return
	}

	c.JSON(http.StatusOK, products.Ok(product, fmt.Sprintf("%q updated successfully.", product.Name)))
}

// DeleteProduct godoc
// @Summary      Delete a product by ID
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  products.Result[deletedProduct]
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  products.Result[deletedProduct]
// @Failure      500  {object}  products.Result[deletedProduct]
// @Router       /products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), products.Fail[deletedProduct](err))
		return
	}

	c.JSON(http.StatusOK, products.Ok(deletedProduct{ID: id}, "Product deleted."))
}

// ListProducts godoc
// @Summary      List products through the filter, sort and page pipeline
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search     query     string  false  "Case-insensitive match on name, description or product ID"
// @Param        stock      query     string  false  "all, in_stock, low_stock or out_of_stock"
// @Param        category   query     int     false  "Category ID"
// @Param        added      query     string  false  "all, 7d or 30d"
// @Param        min_qty    query     int     false  "Minimum quantity"
// @Param        max_qty    query     int     false  "Maximum quantity"
// @Param        sort       query     string  false  "name, quantity, created_at, product_id or category"  default(created_at)
// @Param        order      query     string  false  "asc or desc"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        page_size  query     int     false  "10, 25 or 50"  default(10)
// @Success      200        {object}  listProductsResponse
// @Failure      500        {object}  errorResponse
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	page, lowStock, err := h.service.ListProducts(c.Request.Context(), parseQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get products"})
		return
	}

	c.JSON(http.StatusOK, listProductsResponse{Page: page, LowStockCount: lowStock})
}

// LowStock godoc
// @Summary      Products below their low-stock threshold
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   products.Product
// @Failure      500  {object}  errorResponse
// @Router       /products/low-stock [get]
func (h *Handler) LowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get low-stock products"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListCategories godoc
// @Summary      List categories ordered by name
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   products.Category
// @Failure      500  {object}  errorResponse
// @Router       /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get categories"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func statusFor(err error) int {
	switch products.KindOf(err) {
	case products.KindValidation:
		return http.StatusBadRequest
	case products.KindConflict:
		return http.StatusConflict
	case products.KindConsistency:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return 0, false
	}
	return id, true
}

func parseQuery(c *gin.Context) pipeline.Query {
	q := pipeline.DefaultQuery()
	q.Search = c.Query("search")
	q.Stock = pipeline.ParseStock(c.Query("stock"))
	q.CategoryID = pipeline.ParseCategory(c.Query("category"))
	q.AddedWithin = pipeline.ParseDateFilter(c.Query("added"))
	q.MinQty = pipeline.ParseBound(c.Query("min_qty"))
	q.MaxQty = pipeline.ParseBound(c.Query("max_qty"))

	// A column picked without an order starts ascending, like a header click.
	if raw := c.Query("sort"); raw != "" {
		q.Sort = pipeline.ParseSort(raw)
		q.Desc = false
	}
	if desc, ok := pipeline.ParseOrder(c.Query("order")); ok {
		q.Desc = desc
	}

	q.Page = parseQueryInt(c.Query("page"), defaultPage)
	q.PageSize = pipeline.NormalizePageSize(parseQueryInt(c.Query("page_size"), pipeline.DefaultPageSize))
	return q
}

func parseQueryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
