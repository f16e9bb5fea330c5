// Package cart holds the shopping cart state machine: an ordered list of
// lines keyed by product+variant, with totals recomputed from the list on
// every transition, persisted to the local store after each mutation.
package cart

import (
	"livingdead/internal/domain"
)

// Line is one cart entry. Price is captured when the line is created and is
// NOT re-derived on later quantity bumps: if the catalog price moves between
// adds, the cart keeps showing the price from the first add.
type Line struct {
	Key      string          `json:"key"`
	Product  domain.Product  `json:"product"`
	Variant  *domain.Variant `json:"variant,omitempty"`
	Quantity int             `json:"quantity"`
	Price    float64         `json:"price"`
}

// State is the whole cart. TotalItems/TotalAmount always equal the
// recomputation over Items; transitions rebuild them from the full list
// rather than adjusting incrementally, so they cannot drift.
type State struct {
	Items       []Line  `json:"items"`
	TotalItems  int     `json:"totalItems"`
	TotalAmount float64 `json:"totalAmount"`
}

func emptyState() State { return State{Items: []Line{}} }

// LineKey derives the identity of a cart line: the product id alone, or the
// product id plus the canonical serialization of the variant's option set.
func LineKey(productID string, v *domain.Variant) string {
	if v == nil || len(v.Options) == 0 {
		return productID
	}
	return productID + "#" + domain.CanonicalOptions(v.Options)
}

func addItem(s State, p domain.Product, v *domain.Variant, quantity int) State {
	if quantity < 1 {
		quantity = 1
	}
	key := LineKey(p.ID, v)

	items := make([]Line, len(s.Items))
	copy(items, s.Items)

	found := false
	for i := range items {
		if items[i].Key == key {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, Line{
			Key:      key,
			Product:  p,
			Variant:  v,
			Quantity: quantity,
			Price:    domain.UnitPrice(p, v),
		})
	}
	return withTotals(items)
}

func removeItem(s State, key string) State {
	idx := -1
	for i := range s.Items {
		if s.Items[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	items := make([]Line, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	return withTotals(items)
}

func setQuantity(s State, key string, quantity int) State {
	if quantity <= 0 {
		return removeItem(s, key)
	}
	idx := -1
	for i := range s.Items {
		if s.Items[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	items := make([]Line, len(s.Items))
	copy(items, s.Items)
	items[idx].Quantity = quantity
	return withTotals(items)
}

func withTotals(items []Line) State {
	n := 0
	amount := 0.0
	for _, it := range items {
		n += it.Quantity
		amount += it.Price * float64(it.Quantity)
	}
	return State{Items: items, TotalItems: n, TotalAmount: amount}
}
