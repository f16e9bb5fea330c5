package handlers

import (
	"strings"

	"livingdead/internal/cart"
	"livingdead/internal/catalog"
	"livingdead/internal/domain"
	applog "livingdead/internal/log"
	"livingdead/internal/variant"

	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	Catalog *catalog.Client
	Carts   *cart.Store
}

// ProductCard carries the listing derivations: price range when variants
// price themselves, stock badge, and whether the product is already carted.
type ProductCard struct {
	Product      domain.Product
	PriceMin     float64
	PriceMax     float64
	VariantPrice bool
	Availability domain.Availability
	InCart       bool
}

func (h *ShopHandler) card(sid string, p domain.Product) ProductCard {
	card := ProductCard{Product: p}
	if p.HasVariants() {
		card.PriceMin, card.PriceMax, card.VariantPrice = variant.PriceRange(p.Variants)
		card.Availability = domain.ClassifyAvailability(variant.TotalStock(p.Variants))
	} else {
		card.Availability = domain.ClassifyAvailability(p.Quantity)
	}
	_, card.InCart = h.Carts.LineFor(sid, p.ID, nil)
	return card
}

// Home renders the landing page with the newest arrivals.
func (h *ShopHandler) Home(c *fiber.Ctx) error {
	sid := ensureSID(c)
	products, err := h.Catalog.List(c.Context())
	if err != nil {
		applog.Error(c, "shop.list.fail", err, nil)
		return render(c, "home", fiber.Map{"Cards": nil, "Err": "The shop is unavailable right now."})
	}
	if len(products) > 8 {
		products = products[:8]
	}
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, h.card(sid, p))
	}
	return render(c, "home", fiber.Map{"Cards": cards, "Cart": h.Carts.Summarize(sid)})
}

// List renders the shop grid, with optional tag and text filters.
func (h *ShopHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	products, err := h.Catalog.List(c.Context())
	if err != nil {
		applog.Error(c, "shop.list.fail", err, nil)
		return render(c, "shop", fiber.Map{"Cards": nil, "Err": "The shop is unavailable right now."})
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	tag := strings.TrimSpace(c.Query("tag"))
	var cards []ProductCard
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		cards = append(cards, h.card(sid, p))
	}
	return render(c, "shop", fiber.Map{"Cards": cards, "Q": c.Query("q"), "Tag": tag, "Cart": h.Carts.Summarize(sid)})
}

func hasTag(p domain.Product, tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
