package main

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wichananm65/helmet-storefront/internal/cart"
	"github.com/wichananm65/helmet-storefront/internal/catalog"
	"github.com/wichananm65/helmet-storefront/internal/checkout"
	"github.com/wichananm65/helmet-storefront/internal/config"
	"github.com/wichananm65/helmet-storefront/internal/product"
	"github.com/wichananm65/helmet-storefront/internal/session"
)

const sweepInterval = time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		logger.Fatal("open catalog source", zap.Error(err))
	}
	defer closeRepo()

	cat, err := catalog.Load(repo, cfg.FeaturedProductID)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("products", cat.Len()))

	money, err := checkout.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		logger.Fatal("currency formatter", zap.Error(err))
	}

	store := cart.NewStore(cart.LogEvents(logger))
	cartService := cart.NewService(store, cat, logger)

	catalogHandler := catalog.NewHandler(cat)
	revoked := session.NewRevocations()
	sessionHandler := session.NewHandler(session.NewIssuer(cfg.JWTSecret, cfg.SessionTTL), revoked, cartService, logger)
	cartHandler := cart.NewHandler(cartService)
	checkoutHandler := checkout.NewHandler(cartService,
		checkout.NewComposer(cfg.StoreName, cfg.CheckoutPhone, money), logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: !cfg.Development()})
	app.Use(requestLogger(logger))
	app.Use(recover.New())
	setupCORS(app, cfg.CORSAllowOrigins)

	catalogHandler.RegisterPublicRoutes(app)
	sessionHandler.RegisterPublicRoutes(app)

	app.Use(session.Middleware(cfg.JWTSecret, revoked))

	sessionHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, store, revoked, cfg.SessionTTL, logger)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Development() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// openRepository picks Postgres when DATABASE_URL is set and the catalog file
// otherwise.
func openRepository(cfg config.Config) (product.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		return product.NewFileRepository(cfg.CatalogPath), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	repo := product.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}

func sweepSessions(ctx context.Context, store *cart.Store, revoked *session.Revocations, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Expire(ttl); n > 0 {
				logger.Info("expired idle carts", zap.Int("count", n), zap.Int("active", store.Len()))
			}
			revoked.Sweep()
		}
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-Total-Count",
	}))
}

// requestLogger runs the error handler itself for a failed chain so the
// logged status is the one sent to the client.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)))
		return nil
	}
}
