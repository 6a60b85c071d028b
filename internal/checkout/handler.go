package checkout

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/helmet-storefront/internal/cart"
	"github.com/wichananm65/helmet-storefront/internal/session"
)

// CartReader returns the current cart of a session. *cart.Service satisfies
// it.
type CartReader interface {
	Get(sessionID string) cart.Snapshot
}

type Handler struct {
	carts    CartReader
	composer *Composer
	log      *zap.Logger
}

func NewHandler(carts CartReader, composer *Composer, log *zap.Logger) *Handler {
	return &Handler{carts: carts, composer: composer, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout", h.checkout)
}

type checkoutResponse struct {
	Message   string `json:"message"`
	Link      string `json:"link"`
	Subtotal  int64  `json:"subtotal"`
	ItemCount int    `json:"itemCount"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	sessionID, err := session.IDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	snap := h.carts.Get(sessionID)
	if snap.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	}

	msg := h.composer.Message(snap)
	link := h.composer.Link(msg)
	h.log.Info("checkout prepared",
		zap.String("session_id", sessionID),
		zap.Int("item_count", snap.ItemCount),
		zap.Int64("subtotal", snap.Subtotal))

	if c.QueryBool("redirect") {
		return c.Redirect(link, fiber.StatusFound)
	}
	return c.JSON(checkoutResponse{Message: msg, Link: link, Subtotal: snap.Subtotal, ItemCount: snap.ItemCount})
}
