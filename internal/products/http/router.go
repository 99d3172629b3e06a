package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	healthStatusOK        = "ok"
	healthStatusUnhealthy = "unhealthy"
)

type HealthChecker interface {
	Health() error
}

// Routes groups what RegisterRoutes mounts. RequireAuth guards every
// inventory route; Login stays public.
type Routes struct {
	Products    *Handler
	Live        *Hub
	Login       gin.HandlerFunc
	SignOut     gin.HandlerFunc
	RequireAuth gin.HandlerFunc
	Checkers    []HealthChecker
}

func RegisterRoutes(router *gin.Engine, r Routes) {
	router.POST("/auth/login", r.Login)

	protected := router.Group("/", r.RequireAuth)
	protected.POST("/auth/signout", r.SignOut)
	protected.GET("/products", r.Products.ListProducts)
	protected.GET("/products/low-stock", r.Products.LowStock)
	protected.GET("/products/live", r.Live.ServeLive)
	protected.POST("/products", r.Products.CreateProduct)
	protected.PUT("/products/:id", r.Products.UpdateProduct)
	protected.DELETE("/products/:id", r.Products.DeleteProduct)
	protected.GET("/categories", r.Products.ListCategories)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		for _, checker := range r.Checkers {
			if err := checker.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": healthStatusUnhealthy})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": healthStatusOK})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
