package domain

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

const lowStockThreshold = 5

// ClassifyAvailability maps a raw quantity to the badge shown on listings.
func ClassifyAvailability(qty int) Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty > lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	if qty < 0 {
		qty = 0
	}
	return Availability{Status: status, Qty: qty}
}
