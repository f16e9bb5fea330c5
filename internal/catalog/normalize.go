package catalog

import "livingdead/internal/domain"

// rawProduct tolerates the field drift in the stored items: isActive may be
// absent (meaning active), and older variants carry a single option/value
// pair instead of an options map.
type rawProduct struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	SalePrice   float64      `json:"salePrice"`
	Quantity    int          `json:"quantity"`
	Weight      float64      `json:"weight"`
	Tags        []string     `json:"tags"`
	Categories  []string     `json:"categories"`
	ImageURL    string       `json:"imageUrl"`
	IsActive    *bool        `json:"isActive"`
	CreatedAt   string       `json:"createdAt"`
	Variants    []rawVariant `json:"variants"`
}

type rawVariant struct {
	Options  map[string]string `json:"options"`
	Option   string            `json:"option"`
	Value    string            `json:"value"`
	Price    float64           `json:"price"`
	Quantity int               `json:"quantity"`
}

func (r rawProduct) normalize() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		Quantity:    r.Quantity,
		Weight:      r.Weight,
		Tags:        r.Tags,
		Categories:  r.Categories,
		ImageURL:    r.ImageURL,
		Active:      r.IsActive == nil || *r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
	for _, v := range r.Variants {
		p.Variants = append(p.Variants, v.normalize())
	}
	return p
}

// normalize migrates the legacy single-option shape into the canonical
// options map, so key derivation and resolution see one representation only.
func (v rawVariant) normalize() domain.Variant {
	opts := v.Options
	if len(opts) == 0 && v.Option != "" {
		opts = map[string]string{v.Option: v.Value}
	}
	return domain.Variant{Options: opts, Price: v.Price, Quantity: v.Quantity}
}
