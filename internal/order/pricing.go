package order

import "math"

// PricingPolicy holds the configured tax and shipping rules. Values come
// from config, never hardcoded in the submission path.
type PricingPolicy struct {
	// TaxRate is a fraction applied to the items price, e.g. 0.05.
	TaxRate float64
	// ShippingFee is the flat delivery charge.
	ShippingFee float64
	// FreeShippingAbove waives the shipping fee once the items price
	// reaches this threshold. Zero disables the waiver.
	FreeShippingAbove float64
}

// Quote computes the tax, shipping and total for an items price.
func (p PricingPolicy) Quote(itemsPrice float64) (tax, shipping, total float64) {
	tax = round2(itemsPrice * p.TaxRate)
	shipping = p.ShippingFee
	if p.FreeShippingAbove > 0 && itemsPrice >= p.FreeShippingAbove {
		shipping = 0
	}
	total = round2(itemsPrice + tax + shipping)
	return tax, shipping, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
