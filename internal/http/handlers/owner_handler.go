package handlers

import (
	"strconv"
	"strings"

	applog "greengrocer/internal/log"
	"greengrocer/internal/repos"
	"greengrocer/internal/services"
	"greengrocer/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// OwnerHandler serves the owner console: catalog administration, stock
// management and the order overview. All routes run under RequireOwner.
type OwnerHandler struct {
	Catalog *services.CatalogService
	Stock   *services.StockService
	Coupons *repos.CouponRepo
	Orders  *repos.OrderRepo
}

// Dashboard combines stock alerts, restock suggestions and the latest
// orders on one page.
func (h *OwnerHandler) Dashboard(c *fiber.Ctx) error {
	alerts, err := h.Stock.Alerts()
	if err != nil {
		applog.Error(c, "owner.dashboard", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	suggestions, err := h.Stock.RestockSuggestions()
	if err != nil {
		applog.Error(c, "owner.dashboard", err, nil)
		suggestions = nil
	}
	outOfStock, err := h.Stock.OutOfStock()
	if err != nil {
		applog.Error(c, "owner.dashboard", err, nil)
		outOfStock = nil
	}
	doubled, err := h.Stock.ThresholdActive()
	if err != nil {
		applog.Error(c, "owner.dashboard", err, nil)
		doubled = nil
	}
	latest, err := h.Orders.ListLatest(20)
	if err != nil {
		applog.Error(c, "owner.dashboard", err, nil)
		latest = nil
	}
	return render(c, "owner", fiber.Map{
		"Alerts":      alerts,
		"Suggestions": suggestions,
		"OutOfStock":  outOfStock,
		"Doubled":     doubled,
		"Orders":      latest,
	})
}

func (h *OwnerHandler) Products(c *fiber.Ctx) error {
	prods, err := h.Catalog.ListAll()
	if err != nil {
		applog.Error(c, "owner.products", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "owner_products", fiber.Map{"Products": prods})
}

func (h *OwnerHandler) CreateProduct(c *fiber.Ctx) error {
	price, okPrice := validate.Price(c.FormValue("basePrice"))
	stock, errStock := strconv.ParseFloat(strings.TrimSpace(c.FormValue("stock")), 64)
	threshold, okThr := validate.Threshold(c.FormValue("threshold"))
	if !okPrice || errStock != nil || stock < 0 || !okThr {
		applog.Security(c, "validation.fail", map[string]any{"form": "product.create"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid price, stock or threshold")
	}

	p, err := h.Catalog.Create(c.FormValue("name"), c.FormValue("category"), price, stock, threshold, c.FormValue("imageRef"))
	if err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Redirect("/owner/products")
}

func (h *OwnerHandler) UpdatePrice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	price, ok := validate.Price(c.FormValue("basePrice"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid price")
	}
	if err := h.Catalog.UpdatePrice(id, price); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "product.price.update", map[string]any{"product_id": id, "price": price})
	return c.Redirect("/owner/products")
}

func (h *OwnerHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Catalog.Deactivate(id); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "product.deactivate", map[string]any{"product_id": id})
	return c.Redirect("/owner/products")
}

func (h *OwnerHandler) AddStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	amount, ok := validate.Amount(c.FormValue("amount"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("amount must be a positive number of kilograms")
	}
	alert, err := h.Stock.AddStock(id, amount)
	if err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "stock.add", map[string]any{"product_id": id, "amount_kg": amount, "level": alert.Level})
	return c.Redirect("/owner/products")
}

func (h *OwnerHandler) ReduceStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	amount, ok := validate.Amount(c.FormValue("amount"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("amount must be a positive number of kilograms")
	}
	alert, err := h.Stock.ReduceStock(id, amount)
	if err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "stock.reduce", map[string]any{"product_id": id, "amount_kg": amount, "level": alert.Level})
	return c.Redirect("/owner/products")
}

func (h *OwnerHandler) UpdateThreshold(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	threshold, ok := validate.Threshold(c.FormValue("threshold"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("threshold must be between 0 and 10000 kg")
	}
	if err := h.Stock.UpdateThreshold(id, threshold); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "stock.threshold.update", map[string]any{"product_id": id, "threshold": threshold})
	return c.Redirect("/owner/products")
}

func (h *OwnerHandler) CouponsPage(c *fiber.Ctx) error {
	coupons, err := h.Coupons.List()
	if err != nil {
		applog.Error(c, "owner.coupons", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load coupons"})
	}
	return render(c, "owner_coupons", fiber.Map{"Coupons": coupons})
}

func (h *OwnerHandler) CreateCoupon(c *fiber.Ctx) error {
	code, ok := validate.CouponCode(c.FormValue("code"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("coupon code must be 4-20 characters without spaces")
	}
	pct, ok := validate.DiscountPct(c.FormValue("discountPct"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("discount must be between 0 and 100 percent")
	}
	if err := h.Coupons.Create(code, pct); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "coupon.create", map[string]any{"code": code, "pct": pct})
	return c.Redirect("/owner/coupons")
}

func (h *OwnerHandler) DeactivateCoupon(c *fiber.Ctx) error {
	code, ok := validate.CouponCode(c.FormValue("code"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing code")
	}
	if err := h.Coupons.Deactivate(code); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "coupon.deactivate", map[string]any{"code": code})
	return c.Redirect("/owner/coupons")
}
