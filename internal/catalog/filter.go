package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"storefront/internal/domain"
)

// Filter returns the products whose title contains query, compared case-folded.
// An empty query returns products unchanged. Order follows the input and the
// input slice is never modified.
func Filter(products []domain.Product, query string) []domain.Product {
	if query == "" {
		return products
	}
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}
