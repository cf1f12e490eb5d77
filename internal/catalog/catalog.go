// Package catalog resolves scanned SKUs and moves the product list in and out of CSV.
package catalog

import (
	"errors"

	"ayaat-pos/internal/model"
)

var ErrNotFound = errors.New("product not found")

// Resolve finds the product with exactly this SKU. Matching is case-sensitive.
func Resolve(sku string, products []model.Product) (*model.Product, error) {
	for i := range products {
		if products[i].SKU == sku {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}
