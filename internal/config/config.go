// Package config provides runtime configuration for the storefront.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBDSN      string // sqlite file backing the local cart store
	CatalogURL string // external serverless product API
	TaxRate    float64

	AuthURL      string // identity provider endpoint; empty enables local mode
	AuthClientID string
	AdminGroup   string

	// local-mode fallback admin (development only)
	AdminEmail        string
	AdminPasswordHash string

	LogFile string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		DBDSN:             getenv("DB_DSN", "livingdead.db"),
		CatalogURL:        getenv("CATALOG_URL", ""),
		TaxRate:           floatenv("TAX_RATE", 0.08),
		AuthURL:           getenv("AUTH_URL", ""),
		AuthClientID:      getenv("AUTH_CLIENT_ID", ""),
		AdminGroup:        getenv("AUTH_ADMIN_GROUP", "admin"),
		AdminEmail:        getenv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		LogFile:           getenv("LOG_FILE", "./livingdead.log"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CATALOG_URL=%s AUTH_URL=%s TAX_RATE=%.4f",
		cfg.Port, cfg.DBDSN, cfg.CatalogURL, cfg.AuthURL, cfg.TaxRate)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func floatenv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}
