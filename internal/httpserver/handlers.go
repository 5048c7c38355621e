package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

type handlers struct {
	session sessionService
	logger  zerolog.Logger
}

type searchRequest struct {
	Query *string `json:"query" binding:"required"`
}

type addItemRequest struct {
	ProductID *int64 `json:"productId" binding:"required"`
}

// listProducts returns the session's filtered catalog, or an ad-hoc search
// when ?q= is present.
func (h *handlers) listProducts(c *gin.Context) {
	if q, ok := c.GetQuery("q"); ok {
		c.JSON(http.StatusOK, toProductList(q, h.session.Search(q)))
		return
	}
	c.JSON(http.StatusOK, toProductList(h.session.SearchQuery(), h.session.Products()))
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	p, err := h.session.Product(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

func (h *handlers) getSearch(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"query": h.session.SearchQuery()})
}

func (h *handlers) setSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query required"})
		return
	}
	h.session.SetSearchQuery(*req.Query)
	c.JSON(http.StatusOK, toProductList(*req.Query, h.session.Products()))
}

func (h *handlers) reloadCatalog(c *gin.Context) {
	h.session.Load(context.WithoutCancel(c.Request.Context()))
	c.JSON(http.StatusAccepted, gin.H{"catalog": h.session.Status().State})
}

func (h *handlers) getCart(c *gin.Context) {
	view := h.session.Cart()
	etag := fmt.Sprintf(`W/"cart-%d"`, view.Version)
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && strings.TrimSpace(match) == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, toCart(view))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	if _, err := h.session.AddToCartByID(domain.ProductID(*req.ProductID)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(h.session.Cart()))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	h.session.RemoveFromCart(id)
	c.JSON(http.StatusOK, toCart(h.session.Cart()))
}

func (h *handlers) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func productIDParam(c *gin.Context) (domain.ProductID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return domain.ProductID(id), true
}
