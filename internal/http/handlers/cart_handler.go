package handlers

import (
	"greengrocer/internal/domain"
	applog "greengrocer/internal/log"
	"greengrocer/internal/services"
	"greengrocer/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func currentUserID(c *fiber.Ctx) string {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return u.ID
	}
	return ""
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid, currentUserID(c))
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Add merges amount kg of a product into the cart and echoes the price
// the customer pays for the added quantity at current stock.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	amount, ok := validate.Amount(c.FormValue("amount"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "amount"})
		return c.Status(fiber.StatusBadRequest).SendString("amount must be a positive number of kilograms, at most 1000")
	}

	price, err := h.Cart.Add(sid, currentUserID(c), productID, amount)
	if err != nil {
		applog.Info(c, "cart.add.reject", map[string]any{"product_id": productID, "error": err.Error()})
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "cart.add", map[string]any{"product_id": productID, "amount_kg": amount, "price": price})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	amount, ok := validate.Amount(c.FormValue("amount"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("amount must be a positive number of kilograms, at most 1000")
	}
	if err := h.Cart.UpdateAmount(sid, currentUserID(c), productID, amount); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Remove(sid, currentUserID(c), productID); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid, currentUserID(c)); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	sid := ensureSID(c)
	code := c.FormValue("code")
	if err := h.Cart.ApplyCoupon(sid, currentUserID(c), code); err != nil {
		applog.Info(c, "cart.coupon.reject", map[string]any{"code": code, "error": err.Error()})
		cv, verr := h.Cart.View(sid, currentUserID(c))
		if verr != nil {
			return c.Status(errStatus(err)).SendString(err.Error())
		}
		return fail(c, "cart", err, fiber.Map{"Cart": cv})
	}
	applog.Audit(c, "cart.coupon.apply", map[string]any{"code": code})
	return c.Redirect("/cart")
}

func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.RemoveCoupon(sid, currentUserID(c)); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	return c.Redirect("/cart")
}
