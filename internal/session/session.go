// Package session issues the signed tokens that tie a browser tab to its
// in-memory cart.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ContextKey is the fiber Locals key holding the verified *jwt.Token.
const ContextKey = "session"

const claimSessionID = "session_id"

type Token struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue starts a new session and signs its token.
func (i *Issuer) Issue() (Token, error) {
	id := uuid.NewString()
	now := i.now()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		claimSessionID: id,
		"iat":          now.Unix(),
		"exp":          exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign session token: %w", err)
	}
	return Token{SessionID: id, Token: signed, ExpiresAt: time.Unix(exp.Unix(), 0).UTC()}, nil
}

// Revocations remembers ended sessions until their tokens would have expired
// on their own.
type Revocations struct {
	mu    sync.Mutex
	ended map[string]time.Time
	now   func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{ended: make(map[string]time.Time), now: time.Now}
}

// Revoke rejects sessionID until the given time.
func (r *Revocations) Revoke(sessionID string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended[sessionID] = until
}

func (r *Revocations) Revoked(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.ended[sessionID]
	return ok && r.now().Before(until)
}

// Sweep forgets revocations whose tokens have expired and returns how many
// were dropped.
func (r *Revocations) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	dropped := 0
	for id, until := range r.ended {
		if !now.Before(until) {
			delete(r.ended, id)
			dropped++
		}
	}
	return dropped
}

// Middleware verifies the bearer token, stores it under ContextKey and
// rejects tokens without a session id or of a revoked session.
func Middleware(secret []byte, revoked *Revocations) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: secret,
		ContextKey: ContextKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			id, err := IDFromCtx(c)
			if err != nil || revoked.Revoked(id) {
				return unauthorized(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	tok, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// IDFromCtx returns the session id of an authenticated request. It never
// returns an empty id without an error.
func IDFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	id, ok := claims[claimSessionID].(string)
	if !ok || id == "" {
		return "", fiber.ErrUnauthorized
	}
	return id, nil
}

// expiryFromCtx returns the exp claim of an authenticated request.
func expiryFromCtx(c *fiber.Ctx) (time.Time, bool) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}
