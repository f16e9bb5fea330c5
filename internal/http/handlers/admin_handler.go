package handlers

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"livingdead/internal/auth"
	"livingdead/internal/catalog"
	"livingdead/internal/domain"
	applog "livingdead/internal/log"
	"livingdead/internal/validate"
	"livingdead/internal/variant"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler proxies product CRUD to the external API with the admin's
// bearer token. Nothing is persisted locally.
type AdminHandler struct {
	Catalog *catalog.Client
	Auth    *auth.Service
}

func (h *AdminHandler) session(c *fiber.Ctx) *auth.Session {
	if s, ok := c.Locals("session").(*auth.Session); ok {
		return s
	}
	return nil
}

type adminRow struct {
	Product  domain.Product
	Variants int
	Stock    int
}

// Products renders the admin table, with the same filter/sort controls the
// storefront's product list offers.
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products, err := h.Catalog.ListAll(c.Context())
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(502).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	rows := make([]adminRow, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		stock := p.Quantity
		if p.HasVariants() {
			stock = variant.TotalStock(p.Variants)
		}
		rows = append(rows, adminRow{Product: p, Variants: len(p.Variants), Stock: stock})
	}

	switch c.Query("sort") {
	case "price":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Product.Price < rows[j].Product.Price })
	case "stock":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Stock < rows[j].Stock })
	case "title":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Product.Title < rows[j].Product.Title })
	}
	return render(c, "admin_products", fiber.Map{"Rows": rows, "Q": c.Query("q"), "Sort": c.Query("sort")})
}

func (h *AdminHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "admin_product_form", fiber.Map{"Err": ""})
}

func (h *AdminHandler) Create(c *fiber.Ctx) error {
	in, err := h.productInput(c)
	if err != nil {
		return c.Status(400).Render("admin_product_form", fiber.Map{"Err": err.Error(), "CSRFToken": c.Cookies("csrf_")})
	}
	sess := h.session(c)
	if err := h.Catalog.Create(c.Context(), sess.IDToken, in); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"title": in.Title})
		return c.Status(502).Render("admin_product_form", fiber.Map{"Err": "The product API rejected the create", "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "admin.products.create", map[string]any{"title": in.Title})
	return c.Redirect("/admin")
}

func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	in, err := h.productInput(c)
	if err != nil {
		return c.Status(400).SendString(err.Error())
	}
	sess := h.session(c)
	if err := h.Catalog.Update(c.Context(), sess.IDToken, id, in); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return c.Status(502).SendString("could not update product")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.Redirect("/admin")
}

func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	sess := h.session(c)
	if err := h.Catalog.Delete(c.Context(), sess.IDToken, id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Status(502).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin")
}

func (h *AdminHandler) productInput(c *fiber.Ctx) (catalog.ProductInput, error) {
	var in catalog.ProductInput
	in.Title = strings.TrimSpace(c.FormValue("title"))
	if in.Title == "" {
		return in, errInput("Product title is required")
	}
	in.Description = strings.TrimSpace(c.FormValue("description"))
	if in.Description == "" {
		return in, errInput("Product description is required")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return in, errInput("Valid price is required")
	}
	in.Price = price
	if s := c.FormValue("salePrice"); strings.TrimSpace(s) != "" {
		sale, ok := validate.Price(s)
		if !ok || sale >= price {
			return in, errInput("Sale price must be below the regular price")
		}
		in.SalePrice = sale
	}
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("quantity")))
	if err != nil || qty < 0 {
		return in, errInput("Valid quantity is required")
	}
	in.Quantity = qty
	if w := strings.TrimSpace(c.FormValue("weight")); w != "" {
		if f, err := strconv.ParseFloat(w, 64); err == nil && f >= 0 {
			in.Weight = f
		}
	}
	in.Tags = validate.Tags(c.FormValue("tags"))
	in.ImageBase64 = c.FormValue("imageBase64")

	if raw := strings.TrimSpace(c.FormValue("variants")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Variants); err != nil {
			return in, errInput("Variants must be valid JSON")
		}
		for _, v := range in.Variants {
			if len(v.Options) == 0 {
				return in, errInput("Every variant needs at least one option")
			}
			if v.Quantity < 0 {
				return in, errInput("Variant quantity cannot be negative")
			}
		}
	}
	return in, nil
}

type errInput string

func (e errInput) Error() string { return string(e) }
