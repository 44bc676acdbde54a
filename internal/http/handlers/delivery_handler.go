package handlers

import (
	"greengrocer/internal/domain"
	applog "greengrocer/internal/log"
	"greengrocer/internal/services"
	"greengrocer/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// DeliveryHandler serves the carrier board. Every route behind it runs
// under RequireCarrier, so Locals("user") always holds a carrier.
type DeliveryHandler struct {
	Delivery *services.DeliveryService
}

func carrier(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// Board shows available orders next to the carrier's active ones.
func (h *DeliveryHandler) Board(c *fiber.Ctx) error {
	u := carrier(c)
	available, err := h.Delivery.Available()
	if err != nil {
		applog.Error(c, "carrier.board", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	current, err := h.Delivery.Current(u.ID)
	if err != nil {
		applog.Error(c, "carrier.board", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	urgent, err := h.Delivery.Urgent()
	if err != nil {
		applog.Error(c, "carrier.board", err, nil)
		urgent = nil
	}
	return render(c, "carrier", fiber.Map{
		"Available": available,
		"Current":   current,
		"Urgent":    urgent,
		"SlotsLeft": services.MaxConcurrentDeliveries - len(current),
	})
}

func (h *DeliveryHandler) Completed(c *fiber.Ctx) error {
	u := carrier(c)
	done, err := h.Delivery.Completed(u.ID)
	if err != nil {
		applog.Error(c, "carrier.completed", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	stats, err := h.Delivery.Stats(u.ID)
	if err != nil {
		applog.Error(c, "carrier.stats", err, nil)
	}
	return render(c, "carrier_done", fiber.Map{"Orders": done, "Stats": stats})
}

// Accept claims an available order. Losing a race to another carrier is
// a normal outcome, reported back on the board.
func (h *DeliveryHandler) Accept(c *fiber.Ctx) error {
	u := carrier(c)
	oid, ok := validate.ID(c.FormValue("orderId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing orderId")
	}
	if err := h.Delivery.Accept(oid, u.ID); err != nil {
		applog.Info(c, "delivery.accept.reject", map[string]any{"order_id": oid, "carrier_id": u.ID, "error": err.Error()})
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "delivery.accept", map[string]any{"order_id": oid, "carrier_id": u.ID})
	return c.Redirect("/carrier")
}

func (h *DeliveryHandler) Start(c *fiber.Ctx) error {
	u := carrier(c)
	oid, ok := validate.ID(c.FormValue("orderId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing orderId")
	}
	if err := h.Delivery.Start(oid, u.ID); err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "delivery.start", map[string]any{"order_id": oid, "carrier_id": u.ID})
	return c.Redirect("/carrier")
}

func (h *DeliveryHandler) Complete(c *fiber.Ctx) error {
	u := carrier(c)
	oid, ok := validate.ID(c.FormValue("orderId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing orderId")
	}
	o, err := h.Delivery.Complete(oid, u.ID)
	if err != nil {
		return c.Status(errStatus(err)).SendString(err.Error())
	}
	applog.Audit(c, "delivery.complete", map[string]any{
		"order_id": oid, "carrier_id": u.ID, "on_time": o.OnTime(),
	})
	return c.Redirect("/carrier/completed")
}
