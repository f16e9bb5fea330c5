package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"livingdead/internal/auth"
	"livingdead/internal/cart"
	"livingdead/internal/catalog"
	"livingdead/internal/config"
	"livingdead/internal/http/handlers"
	applog "livingdead/internal/log"
	"livingdead/internal/storage"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	if cfg.CatalogURL == "" {
		log.Fatal("CATALOG_URL is required")
	}

	kv, err := storage.Open(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer kv.Close()

	carts := cart.NewStore(kv)
	products := catalog.NewClient(cfg.CatalogURL)

	var authSvc *auth.Service
	if cfg.AuthURL != "" {
		authSvc = auth.NewService(auth.NewClient(cfg.AuthURL, cfg.AuthClientID), cfg.AdminGroup)
	} else {
		log.Printf("[warn] AUTH_URL unset, using local admin fallback")
		authSvc = auth.NewLocalService(cfg.AdminGroup, cfg.AdminEmail, cfg.AdminPasswordHash)
	}

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 8 << 20 // product images travel base64-encoded

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(func(c *fiber.Ctx) error {
		if sess := authSvc.Current(c.Cookies("sid")); sess != nil {
			c.Locals("session", sess)
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			// the JSON selector API carries no session-changing writes
			return strings.HasPrefix(c.Path(), "/api/v1/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")

	deps := handlers.NewDeps(cfg, carts, products, authSvc)

	// Storefront
	app.Get("/", deps.ShopHandler.Home)
	app.Get("/shop", deps.ShopHandler.List)
	app.Get("/product/:id", deps.ProductHandler.Detail)

	// Variant selector API
	api := app.Group("/api/v1")
	api.Post("/products/:id/options", deps.ProductHandler.Options)
	api.Get("/cart/badge", deps.CartHandler.Badge)

	// Cart & checkout
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Get("/checkout", deps.CheckoutHandler.Summary)

	// Auth (login throttled)
	authH := deps.AuthHandler
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)
	app.Get("/signup", authH.SignupForm)
	app.Post("/signup", authH.Signup)
	app.Post("/confirm", authH.Confirm)
	app.Post("/forgot", authH.Forgot)
	app.Get("/account", handlers.RequireUser(authSvc), authH.Account)

	// Admin product CRUD
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Products)
	admin.Get("/products/new", deps.AdminHandler.NewForm)
	admin.Post("/products", deps.AdminHandler.Create)
	admin.Post("/products/:id", deps.AdminHandler.Update)
	admin.Post("/products/:id/delete", deps.AdminHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
