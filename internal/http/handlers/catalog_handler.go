package handlers

import (
	"strings"

	applog "greengrocer/internal/log"
	"greengrocer/internal/services"
	"greengrocer/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Home lists active produce, optionally narrowed by ?category= and a
// ?q= name prefix.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	category := ""
	if cat, ok := validate.Category(c.Query("category")); ok {
		category = cat
	}
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))

	prods, err := h.Catalog.List(category, q)
	if err != nil {
		applog.Error(c, "catalog.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "home", fiber.Map{"Products": prods, "Category": category, "Query": q})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil || !p.Active {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	return render(c, "product", fiber.Map{"Product": p})
}
