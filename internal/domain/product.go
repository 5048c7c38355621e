package domain

import "github.com/shopspring/decimal"

// ProductID identifies a product within a catalog snapshot.
type ProductID int64

// Product is a catalog record. Products are read-only once fetched.
type Product struct {
	ID          ProductID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}
