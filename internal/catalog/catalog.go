// Package catalog holds the static product list. The data ships with the
// binary and is validated once at load; after that the catalog is read-only.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/svaraband/storefront/internal/domain"
)

//go:embed products.json
var productsJSON []byte

type Catalog struct {
	products []domain.Product
	byID     map[int]int
}

// Load parses and validates the embedded product data. Duplicate ids and
// records failing domain validation are load errors, not warnings: a bad
// catalog should never reach the storefront.
func Load() (*Catalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse products: %w", err)
	}
	c := &Catalog{products: products, byID: make(map[int]int, len(products))}
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// All returns the full product list in catalog order. The slice is a copy;
// callers cannot mutate the catalog through it.
func (c *Catalog) All() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) ByID(id int) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return c.products[i], nil
}

func (c *Catalog) Len() int { return len(c.products) }
