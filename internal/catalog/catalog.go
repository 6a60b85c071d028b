// Package catalog holds the read-only product list a storefront session
// browses, together with its search.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/wichananm65/helmet-storefront/internal/product"
)

// memoLimit bounds the number of distinct queries kept by Search.
const memoLimit = 256

// Catalog is immutable after New. It is safe for concurrent use.
type Catalog struct {
	products []product.Product
	index    map[string]int
	featured int

	mu   sync.Mutex
	memo map[string][]product.Product
}

// Load reads every product from repo and builds the catalog with New.
func Load(repo product.Repository, featuredID string) (*Catalog, error) {
	products, err := repo.List()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(products, featuredID)
}

// New validates products and builds the catalog. featuredID selects the hero
// product; an empty value picks the first product.
func New(products []product.Product, featuredID string) (*Catalog, error) {
	c := &Catalog{
		products: slices.Clone(products),
		index:    make(map[string]int, len(products)),
		featured: -1,
		memo:     make(map[string][]product.Product),
	}
	for i, p := range c.products {
		if errs := product.Validate(p); len(errs) > 0 {
			return nil, fmt.Errorf("catalog product #%d (%q): %v", i+1, p.ID, errs)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("catalog product #%d: duplicate id %q", i+1, p.ID)
		}
		c.index[p.ID] = i
	}

	switch {
	case featuredID != "":
		i, ok := c.index[featuredID]
		if !ok {
			return nil, fmt.Errorf("featured product %q is not in the catalog", featuredID)
		}
		c.featured = i
	case len(c.products) > 0:
		c.featured = 0
	}
	return c, nil
}

// Products returns the catalog in its original order.
func (c *Catalog) Products() []product.Product {
	return slices.Clone(c.products)
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) Get(id string) (product.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return product.Product{}, false
	}
	return c.products[i], true
}

// Featured returns the product shown in the hero section. It reports false
// only for an empty catalog.
func (c *Catalog) Featured() (product.Product, bool) {
	if c.featured < 0 {
		return product.Product{}, false
	}
	return c.products[c.featured], true
}

// Search is Filter over this catalog, memoised per normalised query.
func (c *Catalog) Search(query string) []product.Product {
	q := Normalize(query)
	if q == "" {
		return c.Products()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if hit, ok := c.memo[q]; ok {
		return slices.Clone(hit)
	}
	result := Filter(c.products, q)
	if len(c.memo) >= memoLimit {
		clear(c.memo)
	}
	c.memo[q] = result
	return slices.Clone(result)
}

// Normalize trims, lower-cases and NFC-composes a raw search query.
func Normalize(query string) string {
	return fold(strings.TrimSpace(query))
}

func fold(s string) string {
	return norm.NFC.String(strings.ToLower(s))
}

// Filter returns the products whose name or description contains query,
// compared case-insensitively, in catalog order. A blank query returns every
// product. The input slice is never modified.
func Filter(products []product.Product, query string) []product.Product {
	q := Normalize(query)
	if q == "" {
		return products
	}
	out := make([]product.Product, 0)
	for _, p := range products {
		if strings.Contains(fold(p.Name), q) || strings.Contains(fold(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}
