package domain

import "github.com/shopspring/decimal"

// CartItem is a product line in a cart. Quantity is always at least 1.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered snapshot of cart lines, ordered by first add.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total sums the subtotals of every line.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalQuantity sums the quantities of every line.
func (c Cart) TotalQuantity() int {
	qty := 0
	for _, item := range c.Items {
		qty += item.Quantity
	}
	return qty
}
