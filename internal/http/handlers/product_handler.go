package handlers

import (
	"errors"

	"livingdead/internal/cart"
	"livingdead/internal/catalog"
	"livingdead/internal/domain"
	applog "livingdead/internal/log"
	"livingdead/internal/validate"
	"livingdead/internal/variant"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *catalog.Client
	Carts   *cart.Store
}

// Detail renders the product page with the variant selector structure. The
// first variant's options are preselected so the page opens on a concrete,
// priced combination.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
		}
		applog.Error(c, "product.get.fail", err, map[string]any{"product": id})
		return c.Status(502).Render("notfound", fiber.Map{"Message": "The shop is unavailable right now."})
	}

	data := fiber.Map{
		"P":    p,
		"Cart": h.Carts.Summarize(sid),
	}
	if p.HasVariants() {
		structure := variant.Structure(p.Variants)
		selection := p.Variants[0].Options
		data["Structure"] = structure
		data["Selection"] = selection
		if v, ok := variant.Resolve(p.Variants, selection); ok {
			data["Price"] = domain.UnitPrice(p, &v)
			data["Availability"] = domain.ClassifyAvailability(v.Quantity)
		} else {
			data["Price"] = domain.UnitPrice(p, nil)
			data["Availability"] = domain.ClassifyAvailability(variant.TotalStock(p.Variants))
		}
	} else {
		data["Price"] = domain.UnitPrice(p, nil)
		data["Availability"] = domain.ClassifyAvailability(p.Quantity)
	}
	return render(c, "product", data)
}

type optionsRequest struct {
	Selection map[string]string `json:"selection"`
}

type optionState struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// Options is the JSON endpoint behind the variant selector: given the current
// selection it reports which values stay selectable, and the resolved
// price/stock when the selection pins down exactly one variant.
func (h *ProductHandler) Options(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req optionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.Catalog.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "product not found"})
		}
		applog.Error(c, "product.options.fail", err, map[string]any{"product": id})
		return c.Status(502).JSON(fiber.Map{"error": "catalog unavailable"})
	}

	out := fiber.Map{"resolved": false}
	options := map[string][]optionState{}
	for _, cat := range variant.Structure(p.Variants) {
		states := make([]optionState, 0, len(cat.Values))
		for _, val := range cat.Values {
			states = append(states, optionState{
				Value:     val,
				Available: variant.IsOptionAvailable(p.Variants, req.Selection, cat.Name, val),
			})
		}
		options[cat.Name] = states
	}
	out["options"] = options
	if v, ok := variant.Resolve(p.Variants, req.Selection); ok {
		out["resolved"] = true
		out["price"] = domain.UnitPrice(p, &v)
		out["availability"] = domain.ClassifyAvailability(v.Quantity)
	}
	return c.JSON(out)
}
