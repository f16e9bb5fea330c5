package handlers

import (
	"errors"
	"fmt"
	"strings"

	"livingdead/internal/cart"
	"livingdead/internal/catalog"
	"livingdead/internal/domain"
	applog "livingdead/internal/log"
	"livingdead/internal/validate"
	"livingdead/internal/variant"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Catalog *catalog.Client
	Carts   *cart.Store
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	st := h.Carts.Get(sid)
	return render(c, "cart", fiber.Map{"State": st, "Cart": h.Carts.Summarize(sid)})
}

// Add handles the add-to-cart form. The cart core is total and never errors;
// the guards here (selection completeness, stock) belong to the UI layer and
// block the command before it reaches the store.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	p, err := h.Catalog.Get(c.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return c.Status(502).Render("notfound", fiber.Map{"Message": "The shop is unavailable right now."})
	}

	var selected *domain.Variant
	if p.HasVariants() {
		selection := optionSelection(c)
		v, ok := variant.Resolve(p.Variants, selection)
		if !ok {
			return h.viewWithErr(c, sid, "Please select all options before adding to cart")
		}
		selected = &v
	}

	stock := domain.Stock(p, selected)
	if stock <= 0 {
		return h.viewWithErr(c, sid, "This item is out of stock")
	}
	if qty > stock {
		return h.viewWithErr(c, sid, fmt.Sprintf("Only %d available in stock", stock))
	}

	st := h.Carts.AddItem(sid, p, selected, qty)
	applog.Info(c, "cart.add", map[string]any{"product": productID, "qty": qty, "total_items": st.TotalItems})
	return c.Redirect("/cart")
}

// Update overwrites one line's quantity; zero removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	key := strings.TrimSpace(c.FormValue("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing key")
	}
	qty, ok := validate.Quantity(c.FormValue("qty"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid qty")
	}
	h.Carts.SetQuantity(sid, key, qty)
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	key := strings.TrimSpace(c.FormValue("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing key")
	}
	h.Carts.RemoveItem(sid, key)
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	h.Carts.Clear(sid)
	return c.Redirect("/cart")
}

// Badge feeds the navbar cart indicator.
func (h *CartHandler) Badge(c *fiber.Ctx) error {
	sid := ensureSID(c)
	sum := h.Carts.Summarize(sid)
	return c.JSON(fiber.Map{"itemCount": sum.ItemCount, "totalValue": sum.TotalValue, "empty": sum.Empty})
}

func (h *CartHandler) viewWithErr(c *fiber.Ctx, sid, msg string) error {
	st := h.Carts.Get(sid)
	return c.Status(fiber.StatusBadRequest).Render("cart", fiber.Map{
		"State": st, "Cart": h.Carts.Summarize(sid), "Err": msg,
	})
}

// optionSelection gathers the opt_<Category> form fields into a selection.
func optionSelection(c *fiber.Ctx) map[string]string {
	selection := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		name := string(k)
		if strings.HasPrefix(name, "opt_") && len(v) > 0 {
			selection[strings.TrimPrefix(name, "opt_")] = string(v)
		}
	})
	return selection
}
