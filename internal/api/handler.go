package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookie = "cart_session"

// Handler contains HTTP handlers
type Handler struct {
	catalogService    *service.CatalogService
	cartService       *service.CartService
	newsletterService *service.NewsletterService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	newsletterService *service.NewsletterService,
) *Handler {
	return &Handler{
		catalogService:    catalogService,
		cartService:       cartService,
		newsletterService: newsletterService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/bundles", h.listBundles)
		v1.GET("/bundles/:id", h.getBundle)

		carted := v1.Group("")
		carted.Use(sessionMiddleware())
		{
			carted.GET("/cart", h.getCart)
			carted.POST("/cart/items", h.addCartItem)
			carted.PATCH("/cart/items/:id", h.updateCartItem)
			carted.DELETE("/cart/items/:id", h.removeCartItem)
			carted.POST("/cart/toggle", h.toggleCart)
			carted.DELETE("/cart", h.clearCart)
			carted.POST("/checkout", h.checkout)
		}

		v1.POST("/newsletter", h.subscribeNewsletter)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts handles filtered product listing
func (h *Handler) listProducts(c *gin.Context) {
	products := h.catalogService.ListProducts(c.Request.Context(), service.ListProductsRequest{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Sort:     c.Query("sort"),
		MaxPrice: c.Query("maxPrice"),
	})

	c.JSON(http.StatusOK, products)
}

// getProduct handles product lookup by id
func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// listBundles handles filtered bundle listing
func (h *Handler) listBundles(c *gin.Context) {
	bundles := h.catalogService.ListBundles(c.Request.Context(), service.ListBundlesRequest{
		Tag:      c.Query("tag"),
		Featured: c.Query("featured"),
	})

	c.JSON(http.StatusOK, bundles)
}

// getBundle handles bundle lookup by id, with resolved products
func (h *Handler) getBundle(c *gin.Context) {
	detail, ok := h.catalogService.GetBundle(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Bundle not found",
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// getCart returns the session's cart with derived totals
func (h *Handler) getCart(c *gin.Context) {
	cartView, err := h.cartService.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load cart",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartView)
}

type addItemRequest struct {
	ID   string `json:"id" binding:"required"`
	Kind string `json:"kind" binding:"omitempty,oneof=product bundle"`
}

// addCartItem adds a product or bundle to the session's cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	cartView, err := h.cartService.AddItem(c.Request.Context(), sessionID(c), req.ID, req.Kind)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to add item",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartView)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartItem sets a line's quantity; zero or less removes the line
func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	cartView, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("id"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update quantity",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartView)
}

// removeCartItem deletes a line; absent ids are no-ops
func (h *Handler) removeCartItem(c *gin.Context) {
	cartView, err := h.cartService.RemoveItem(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove item",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartView)
}

// toggleCart flips the cart drawer open state
func (h *Handler) toggleCart(c *gin.Context) {
	cartView, err := h.cartService.ToggleCart(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to toggle cart",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartView)
}

// clearCart empties the session's cart
func (h *Handler) clearCart(c *gin.Context) {
	cartView, err := h.cartService.ClearCart(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to clear cart",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, cartView)
}

// checkout is a stub acknowledging the cart totals
func (h *Handler) checkout(c *gin.Context) {
	cartView, err := h.cartService.Checkout(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to start checkout",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "checkout_started",
		"cart":   cartView,
	})
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// subscribeNewsletter records a newsletter subscription
func (h *Handler) subscribeNewsletter(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.newsletterService.Subscribe(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid email address",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to subscribe",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "subscribed",
	})
}

// sessionMiddleware issues the cart session cookie on first contact
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.New().String()
			c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
		}
		c.Set(sessionCookie, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCookie)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
