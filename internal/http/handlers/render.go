package handlers

import (
	"errors"

	"greengrocer/internal/domain"
	"greengrocer/internal/services"

	"github.com/gofiber/fiber/v2"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// errStatus maps domain failures to HTTP statuses: unknown resources are
// 404, races are 409, everything user-recoverable is 400.
func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAssignConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrAmountNotPositive),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrNotInCart),
		errors.Is(err, domain.ErrBadCouponCode),
		errors.Is(err, domain.ErrCouponApplied),
		errors.Is(err, domain.ErrBadDiscountPct),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrBadThreshold),
		errors.Is(err, domain.ErrBadProductName),
		errors.Is(err, domain.ErrBadCategory),
		errors.Is(err, domain.ErrBadPrice),
		errors.Is(err, domain.ErrDeliveryWindow),
		errors.Is(err, domain.ErrBadName),
		errors.Is(err, domain.ErrBadAddress),
		errors.Is(err, domain.ErrBadPhone),
		errors.Is(err, domain.ErrAlreadyAssigned),
		errors.Is(err, domain.ErrNotAssignedToYou),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDeliveryBeforeTime),
		errors.Is(err, domain.ErrCarrierBusy),
		errors.Is(err, services.ErrBadCreds):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// fail renders a business error back onto the page the user came from.
func fail(c *fiber.Ctx, tmpl string, err error, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Err"] = err.Error()
	return c.Status(errStatus(err)).Render(tmpl, data)
}
