package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/storefront"
)

type sessionService interface {
	Load(ctx context.Context) <-chan struct{}
	Status() storefront.Status
	Products() []domain.Product
	Search(query string) []domain.Product
	SearchQuery() string
	SetSearchQuery(query string)
	Product(id domain.ProductID) (domain.Product, error)
	AddToCartByID(id domain.ProductID) (domain.Product, error)
	RemoveFromCart(id domain.ProductID)
	Cart() storefront.CartView
}

// Deps carries the collaborators the routes need.
type Deps struct {
	Session     sessionService
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Session == nil {
		return nil, errors.New("session required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Session))
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	h := &handlers{session: deps.Session, logger: logger}

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/search", h.getSearch)
	router.PUT("/search", h.setSearch)
	router.POST("/catalog/reload", h.reloadCatalog)

	router.GET("/cart", h.getCart)
	router.POST("/cart/items", h.addCartItem)
	router.DELETE("/cart/items/:id", h.removeCartItem)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "If-None-Match"},
		ExposeHeaders: []string{"ETag"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(session sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := session.Status()
		if st.State != storefront.StateLoaded {
			body := gin.H{"status": "unavailable", "catalog": st.State}
			if st.Err != nil {
				body["reason"] = st.Err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "products": st.Count})
	}
}
