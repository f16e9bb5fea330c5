package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "CATALOG_URL", "TAX_RATE", "AUTH_URL", "AUTH_ADMIN_GROUP"} {
		os.Unsetenv(k)
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port: %s", cfg.Port)
	}
	if cfg.DBDSN != "livingdead.db" {
		t.Fatalf("default dsn: %s", cfg.DBDSN)
	}
	if cfg.TaxRate != 0.08 {
		t.Fatalf("default tax rate: %v", cfg.TaxRate)
	}
	if cfg.AdminGroup != "admin" {
		t.Fatalf("default admin group: %s", cfg.AdminGroup)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_URL", "https://api.example.com")
	t.Setenv("TAX_RATE", "0.1")
	cfg := Load()
	if cfg.Port != "9000" || cfg.CatalogURL != "https://api.example.com" || cfg.TaxRate != 0.1 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadBadTaxRateFallsBack(t *testing.T) {
	t.Setenv("TAX_RATE", "banana")
	if cfg := Load(); cfg.TaxRate != 0.08 {
		t.Fatalf("bad TAX_RATE should fall back, got %v", cfg.TaxRate)
	}
	t.Setenv("TAX_RATE", "-1")
	if cfg := Load(); cfg.TaxRate != 0.08 {
		t.Fatalf("negative TAX_RATE should fall back, got %v", cfg.TaxRate)
	}
}
