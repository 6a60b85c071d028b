package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/helmet-storefront/internal/product"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/products/featured", h.getFeatured)
	app.Get("/api/v1/product/:id", h.getProduct)
}

// getProducts answers the search bar: ?q=<text>&limit=12&offset=0.
// The unpaged match count goes out in X-Total-Count.
func (h *Handler) getProducts(c *fiber.Ctx) error {
	items := h.catalog.Search(c.Query("q"))

	limit := 0
	offset := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	c.Set("X-Total-Count", strconv.Itoa(len(items)))
	return c.JSON(page(items, limit, offset))
}

func (h *Handler) getFeatured(c *fiber.Ctx) error {
	p, ok := h.catalog.Featured()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "catalog is empty"})
	}
	return c.JSON(p)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, ok := h.catalog.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}

// page slices items; limit 0 means no limit.
func page(items []product.Product, limit, offset int) []product.Product {
	if offset >= len(items) {
		return []product.Product{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
