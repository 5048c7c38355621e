package httpserver

import (
	"storefront/internal/domain"
	"storefront/internal/storefront"
)

const priceDigits = 2

type productResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type productListResponse struct {
	Query   string            `json:"query"`
	Count   int               `json:"count"`
	Results []productResponse `json:"results"`
}

type cartLineResponse struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartResponse struct {
	Lines         []cartLineResponse `json:"lineItems"`
	TotalQuantity int                `json:"totalQuantity"`
	Total         string             `json:"total"`
	Version       uint64             `json:"version"`
}

func toProduct(p domain.Product) productResponse {
	return productResponse{
		ID:          int64(p.ID),
		Title:       p.Title,
		Price:       p.Price.StringFixed(priceDigits),
		Description: p.Description,
		Image:       p.Image,
	}
}

func toProductList(query string, products []domain.Product) productListResponse {
	results := make([]productResponse, 0, len(products))
	for _, p := range products {
		results = append(results, toProduct(p))
	}
	return productListResponse{Query: query, Count: len(results), Results: results}
}

func toCart(view storefront.CartView) cartResponse {
	lines := make([]cartLineResponse, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, cartLineResponse{
			ProductID: int64(line.Product.ID),
			Title:     line.Product.Title,
			Image:     line.Product.Image,
			UnitPrice: line.Product.Price.StringFixed(priceDigits),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal.StringFixed(priceDigits),
		})
	}
	return cartResponse{
		Lines:         lines,
		TotalQuantity: view.TotalQuantity,
		Total:         view.Total.StringFixed(priceDigits),
		Version:       view.Version,
	}
}
