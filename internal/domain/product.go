package domain

// Product is a sellable catalog entry served by the external product API.
// When Variants is non-empty, per-variant price/quantity win over the
// product-level Price/Quantity for cart pricing and stock checks.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	SalePrice   float64   `json:"salePrice,omitempty"`
	Quantity    int       `json:"quantity"`
	Weight      float64   `json:"weight,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Active      bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant is a priced, stocked sub-selection of a product. Options maps an
// option category name ("Color") to a value ("Black"). Within one product no
// two variants should carry the same options mapping; the API does not enforce
// that, so resolution treats duplicates as unresolvable.
type Variant struct {
	Options  map[string]string `json:"options"`
	Price    float64           `json:"price"`
	Quantity int               `json:"quantity"`
}

func (p Product) HasVariants() bool { return len(p.Variants) > 0 }

// UnitPrice resolves the price a cart line captures at add time:
// variant price, else product sale price, else product base price.
// A zero value means "not set" at each level, matching the API payloads.
func UnitPrice(p Product, v *Variant) float64 {
	if v != nil && v.Price > 0 {
		return v.Price
	}
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

// Stock returns the quantity that gates an add-to-cart: the variant's own
// stock when one is selected, else the product-level quantity.
func Stock(p Product, v *Variant) int {
	if v != nil {
		return v.Quantity
	}
	return p.Quantity
}
