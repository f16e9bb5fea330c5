package handlers

import (
	"math"

	"livingdead/internal/cart"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Carts   *cart.Store
	TaxRate float64
}

// Summary renders the order summary ahead of payment: line items, subtotal, a
// flat tax rate, grand total. No payment is taken here.
func (h *CheckoutHandler) Summary(c *fiber.Ctx) error {
	sid := ensureSID(c)
	st := h.Carts.Get(sid)
	if len(st.Items) == 0 {
		return c.Redirect("/cart")
	}
	tax := round2(st.TotalAmount * h.TaxRate)
	return render(c, "checkout", fiber.Map{
		"State":      st,
		"Subtotal":   st.TotalAmount,
		"TaxPercent": h.TaxRate * 100,
		"Tax":        tax,
		"Total":      round2(st.TotalAmount + tax),
	})
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
