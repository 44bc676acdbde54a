package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"greengrocer/internal/config"
	"greengrocer/internal/http/handlers"
	applog "greengrocer/internal/log"
	"greengrocer/internal/repos"
	"greengrocer/internal/services"
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

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

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
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
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
		CookieSecure:   false, // set true behind HTTPS
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

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Storefront
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/product/:id", deps.CatalogHandler.Detail)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Post("/cart/coupon", deps.CartHandler.ApplyCoupon)
	app.Post("/cart/coupon/remove", deps.CartHandler.RemoveCoupon)

	// Checkout & orders
	app.Get("/checkout", handlers.RequireUser(authSvc), deps.OrderHandler.Checkout)
	app.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Place)
	app.Get("/order/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Post("/order/:id/cancel", handlers.RequireUser(authSvc), deps.OrderHandler.Cancel)

	// Carrier board
	carrierArea := app.Group("/carrier", handlers.RequireCarrier(authSvc))
	carrierArea.Get("/", deps.DeliveryHandler.Board)
	carrierArea.Get("/completed", deps.DeliveryHandler.Completed)
	carrierArea.Post("/accept", deps.DeliveryHandler.Accept)
	carrierArea.Post("/start", deps.DeliveryHandler.Start)
	carrierArea.Post("/complete", deps.DeliveryHandler.Complete)

	// Owner console
	owner := app.Group("/owner", handlers.RequireOwner(authSvc))
	owner.Get("/", deps.OwnerHandler.Dashboard)
	owner.Get("/products", deps.OwnerHandler.Products)
	owner.Post("/products", deps.OwnerHandler.CreateProduct)
	owner.Post("/products/price", deps.OwnerHandler.UpdatePrice)
	owner.Post("/products/deactivate", deps.OwnerHandler.Deactivate)
	owner.Post("/stock/add", deps.OwnerHandler.AddStock)
	owner.Post("/stock/reduce", deps.OwnerHandler.ReduceStock)
	owner.Post("/stock/threshold", deps.OwnerHandler.UpdateThreshold)
	owner.Get("/coupons", deps.OwnerHandler.CouponsPage)
	owner.Post("/coupons", deps.OwnerHandler.CreateCoupon)
	owner.Post("/coupons/deactivate", deps.OwnerHandler.DeactivateCoupon)

	// Auth routes (login throttled)
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

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
