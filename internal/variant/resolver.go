// Package variant resolves a shopper's option selection against a product's
// variant list: which option values are still selectable, and which concrete
// variant (with its own price and stock) a complete selection lands on.
package variant

import (
	"sort"

	"livingdead/internal/domain"
)

// Category is one selectable option dimension with the distinct values
// observed across a product's variants.
type Category struct {
	Name   string
	Values []string
}

// Structure extracts the selector layout from a variant list. Categories and
// values keep the order of first appearance so the UI is stable across loads.
func Structure(variants []domain.Variant) []Category {
	var out []Category
	index := map[string]int{}
	seen := map[string]map[string]bool{}
	for _, v := range variants {
		for _, name := range orderedKeys(v.Options) {
			i, ok := index[name]
			if !ok {
				i = len(out)
				index[name] = i
				out = append(out, Category{Name: name})
				seen[name] = map[string]bool{}
			}
			val := v.Options[name]
			if !seen[name][val] {
				seen[name][val] = true
				out[i].Values = append(out[i].Values, val)
			}
		}
	}
	return out
}

// IsOptionAvailable reports whether substituting value for category into the
// current selection still leads somewhere: it is false when no variant matches
// the resulting selection, or when every matching variant is out of stock.
// Categories absent from the selection are unconstrained, so a selector can
// gray out dead ends before every category has been chosen.
func IsOptionAvailable(variants []domain.Variant, selection map[string]string, category, value string) bool {
	test := make(map[string]string, len(selection)+1)
	for k, v := range selection {
		test[k] = v
	}
	test[category] = value

	for _, v := range variants {
		if matches(v, test) && v.Quantity > 0 {
			return true
		}
	}
	return false
}

// Resolve returns the single variant whose options exactly equal the
// selection. Zero matches means the combination does not exist; more than one
// means the catalog data is broken upstream. Both come back as not-ok rather
// than guessing.
func Resolve(variants []domain.Variant, selection map[string]string) (domain.Variant, bool) {
	var match domain.Variant
	n := 0
	for _, v := range variants {
		if domain.OptionsEqual(v.Options, selection) {
			match = v
			n++
		}
	}
	if n != 1 {
		return domain.Variant{}, false
	}
	return match, true
}

// PriceRange returns the min and max variant price. ok is false when no
// variant carries its own price, in which case the product-level pricing
// applies.
func PriceRange(variants []domain.Variant) (min, max float64, ok bool) {
	for _, v := range variants {
		if v.Price <= 0 {
			continue
		}
		if !ok || v.Price < min {
			min = v.Price
		}
		if !ok || v.Price > max {
			max = v.Price
		}
		ok = true
	}
	return min, max, ok
}

// TotalStock sums stock across all variants.
func TotalStock(variants []domain.Variant) int {
	total := 0
	for _, v := range variants {
		if v.Quantity > 0 {
			total += v.Quantity
		}
	}
	return total
}

// orderedKeys gives a deterministic walk over one variant's options. Category
// order across the product stays first-appearance in the variant list; within
// a single variant the keys are sorted, since Go maps carry no insertion
// order.
func orderedKeys(opts map[string]string) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matches treats the selection as a partial constraint: every selected
// category must agree with the variant's options.
func matches(v domain.Variant, selection map[string]string) bool {
	for k, want := range selection {
		if v.Options[k] != want {
			return false
		}
	}
	return true
}
