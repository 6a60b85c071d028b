package session

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Ender discards the state held for a session.
type Ender interface {
	EndSession(sessionID string) bool
}

type Handler struct {
	issuer  *Issuer
	revoked *Revocations
	ender   Ender
	log     *zap.Logger
}

func NewHandler(issuer *Issuer, revoked *Revocations, ender Ender, log *zap.Logger) *Handler {
	return &Handler{issuer: issuer, revoked: revoked, ender: ender, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/session", h.start)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Delete("/api/v1/session", h.end)
}

func (h *Handler) start(c *fiber.Ctx) error {
	tok, err := h.issuer.Issue()
	if err != nil {
		h.log.Error("issue session token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	h.log.Info("session started", zap.String("session_id", tok.SessionID))
	return c.Status(fiber.StatusCreated).JSON(tok)
}

func (h *Handler) end(c *fiber.Ctx) error {
	id, err := IDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}
	until, ok := expiryFromCtx(c)
	if !ok {
		until = h.issuer.now().Add(h.issuer.ttl)
	}
	h.revoked.Revoke(id, until)
	h.ender.EndSession(id)
	return c.SendStatus(fiber.StatusNoContent)
}
