package handlers

import (
	"time"

	"greengrocer/internal/domain"
	applog "greengrocer/internal/log"
	"greengrocer/internal/services"
	"greengrocer/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Auth  *services.AuthService
}

// Checkout shows the delivery form with the repriced cart beside it.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if _, err := h.Cart.RefreshLoyalty(sid, currentUserID(c)); err != nil {
		applog.Error(c, "checkout.loyalty", err, nil)
	}
	cv, err := h.Cart.View(sid, currentUserID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

// Place finalizes the cart into an order. All failure modes come back as
// a re-rendered checkout page with the reason.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	userID := currentUserID(c)

	reject := func(err error) error {
		cv, verr := h.Cart.View(sid, userID)
		if verr != nil {
			return c.Status(errStatus(err)).SendString(err.Error())
		}
		applog.Info(c, "order.place.reject", map[string]any{"error": err.Error()})
		return fail(c, "checkout", err, fiber.Map{"Cart": cv})
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return reject(domain.ErrBadName)
	}
	address, ok := validate.Address(c.FormValue("address"))
	if !ok {
		return reject(domain.ErrBadAddress)
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		return reject(domain.ErrBadPhone)
	}
	when, ok := validate.DeliveryTime(c.FormValue("deliveryTime"), time.Now())
	if !ok {
		return reject(domain.ErrDeliveryWindow)
	}

	order, err := h.Order.Place(sid, userID, when, name, address, phone)
	if err != nil {
		return reject(err)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"total":    order.Total,
		"items":    len(order.Items),
	})
	return c.Redirect("/order/" + order.ID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Order.Get(oid, currentUserID(c))
	if err != nil {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": o})
}

// History lists the logged-in customer's orders, newest first.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Order.History(u.ID)
	if err != nil {
		applog.Error(c, "orders.history", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "orders", fiber.Map{"Orders": orders})
}

// Cancel aborts an undelivered order and returns its stock.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if err := h.Order.Cancel(oid, currentUserID(c)); err != nil {
		applog.Info(c, "order.cancel.reject", map[string]any{"order_id": oid, "error": err.Error()})
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": oid})
	return c.Redirect("/orders")
}
