package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Addr              string
	Env               string
	JWTSecret         []byte
	SessionTTL        time.Duration
	DatabaseURL       string
	CatalogPath       string
	FeaturedProductID string
	StoreName         string
	CheckoutPhone     string
	Locale            string
	CurrencySymbol    string
	CORSAllowOrigins  string
}

// Development reports whether APP_ENV selects the development profile.
func (c Config) Development() bool {
	return c.Env == "development"
}

func Load() (Config, error) {
	cfg := Config{
		Addr:              getenv("HELMET_STORE_ADDR", ":8080"),
		Env:               getenv("APP_ENV", "production"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CatalogPath:       getenv("CATALOG_PATH", "configs/catalog.yaml"),
		FeaturedProductID: os.Getenv("FEATURED_PRODUCT_ID"),
		StoreName:         getenv("STORE_NAME", "Helmet Store"),
		CheckoutPhone:     os.Getenv("CHECKOUT_PHONE"),
		Locale:            getenv("LOCALE", "en-IN"),
		CurrencySymbol:    getenv("CURRENCY_SYMBOL", "₹"),
		CORSAllowOrigins:  getenv("CORS_ALLOW_ORIGINS", "*"),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	cfg.JWTSecret = []byte(secret)

	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, errors.New("SESSION_TTL must be positive")
	}
	cfg.SessionTTL = ttl

	if cfg.CheckoutPhone == "" {
		return Config{}, errors.New("CHECKOUT_PHONE is required")
	}
	if strings.Trim(cfg.CheckoutPhone, "0123456789") != "" {
		return Config{}, fmt.Errorf("CHECKOUT_PHONE must contain digits only, got %q", cfg.CheckoutPhone)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
