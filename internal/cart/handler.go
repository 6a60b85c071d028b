package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/helmet-storefront/internal/session"
)

// Handler exposes the session cart to the presentation layer. Every response
// carries the full cart so the drawer can re-render without a second call.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:id", h.setQuantity)
	app.Delete("/api/v1/cart/items/:id", h.removeItem)
	app.Post("/api/v1/cart/items/:id/increment", h.increment)
	app.Post("/api/v1/cart/items/:id/decrement", h.decrement)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type lineItemResponse struct {
	LineItem
	LineTotal int64 `json:"lineTotal"`
}

type cartResponse struct {
	Items     []lineItemResponse `json:"items"`
	Subtotal  int64              `json:"subtotal"`
	ItemCount int                `json:"itemCount"`
	Applied   bool               `json:"applied"`
}

func toResponse(s Snapshot, applied bool) cartResponse {
	items := make([]lineItemResponse, 0, len(s.Items))
	for _, li := range s.Items {
		items = append(items, lineItemResponse{LineItem: li, LineTotal: li.Total()})
	}
	return cartResponse{Items: items, Subtotal: s.Subtotal, ItemCount: s.ItemCount, Applied: applied}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}

func validationFailed(c *fiber.Ctx, err error) error {
	if ve, ok := AsValidation(err); ok {
		body := fiber.Map{"message": ve.Message, "code": ve.Code.String()}
		if len(ve.Fields) > 0 {
			body["errors"] = ve.Fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(toResponse(h.service.Get(sessionID), false))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}
	// omitted quantity means a single unit, like the add-to-cart button
	qty := 1
	if payload.Quantity != nil {
		qty = *payload.Quantity
	}
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	snap, err := h.service.Add(sessionID, payload.ProductID, qty)
	if err != nil {
		return validationFailed(c, err)
	}
	return c.JSON(toResponse(snap, true))
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	payload := new(setQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity is required"})
	}
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	snap, applied, err := h.service.SetQuantity(sessionID, c.Params("id"), *payload.Quantity)
	if err != nil {
		return validationFailed(c, err)
	}
	return c.JSON(toResponse(snap, applied))
}

func (h *Handler) increment(c *fiber.Ctx) error {
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	snap, applied, err := h.service.Increment(sessionID, c.Params("id"))
	if err != nil {
		return validationFailed(c, err)
	}
	return c.JSON(toResponse(snap, applied))
}

func (h *Handler) decrement(c *fiber.Ctx) error {
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	snap, applied := h.service.Decrement(sessionID, c.Params("id"))
	return c.JSON(toResponse(snap, applied))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	snap, applied := h.service.Remove(sessionID, c.Params("id"))
	return c.JSON(toResponse(snap, applied))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	h.service.Clear(sessionID)
	return c.SendStatus(fiber.StatusNoContent)
}
